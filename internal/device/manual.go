package device

import (
	"errors"
	"sync"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// ManualOutput is a test double that pulls frames only when Pump is
// called, so tests control consumption deterministically.
type ManualOutput struct {
	mu     sync.Mutex
	src    Source
	rate   int
	open   bool
	frames [][2]float64

	// FailOpen makes Open return a device error.
	FailOpen bool
}

func NewManualOutput() *ManualOutput {
	return &ManualOutput{}
}

func (m *ManualOutput) Open(sampleRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOpen {
		return &domain.DeviceError{Err: errNoDevice}
	}
	m.rate = sampleRate
	m.open = true
	return nil
}

func (m *ManualOutput) Play(src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.src = src
}

func (m *ManualOutput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// Pump pulls n frames from the source and returns them. The source
// contract guarantees a full buffer, silence filled where needed.
func (m *ManualOutput) Pump(n int) [][2]float64 {
	m.mu.Lock()
	src := m.src
	m.mu.Unlock()

	buf := make([][2]float64, n)
	if src != nil {
		src.Stream(buf)
	}

	m.mu.Lock()
	m.frames = append(m.frames, buf...)
	m.mu.Unlock()
	return buf
}

// Frames returns every frame pumped so far.
func (m *ManualOutput) Frames() [][2]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][2]float64, len(m.frames))
	copy(out, m.frames)
	return out
}

func (m *ManualOutput) Rate() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *ManualOutput) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

var errNoDevice = errors.New("no output device available")
