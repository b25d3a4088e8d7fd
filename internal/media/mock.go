package media

import (
	"errors"
	"sync"
	"time"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// StreamSpec describes how a MockProvider location behaves.
type StreamSpec struct {
	// TotalFrames is the stream length at the provider's rate.
	TotalFrames int64
	// Seed offsets every sample value so frames from different
	// locations are distinguishable.
	Seed float64
	// FailAfter makes decoding fail once this many frames were
	// produced. Zero means the stream never fails.
	FailAfter int64
	// Gated streams produce nothing until Release grants frames.
	Gated bool
	// OpenErr fails Open outright.
	OpenErr error
}

// MockProvider serves deterministic in-memory streams for tests. Every
// Open returns a fresh stream, so reopening a location restarts it.
type MockProvider struct {
	mu     sync.Mutex
	rate   int
	specs  map[string]StreamSpec
	opened map[string][]*MockStream
}

func NewMockProvider(rate int) *MockProvider {
	return &MockProvider{
		rate:   rate,
		specs:  make(map[string]StreamSpec),
		opened: make(map[string][]*MockStream),
	}
}

func (p *MockProvider) SetSpec(location string, spec StreamSpec) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.specs[location] = spec
}

func (p *MockProvider) Supports(location string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.specs[location]
	return ok
}

func (p *MockProvider) Open(location string) (Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	spec, ok := p.specs[location]
	if !ok {
		return nil, &domain.DecodeError{Location: location, Err: unsupportedErr(location)}
	}
	if spec.OpenErr != nil {
		return nil, &domain.DecodeError{Location: location, Err: spec.OpenErr}
	}
	s := newMockStream(spec, p.rate)
	p.opened[location] = append(p.opened[location], s)
	return s, nil
}

// OpenCount reports how many times a location was opened.
func (p *MockProvider) OpenCount(location string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.opened[location])
}

// CloseAll closes every stream handed out so far, unblocking any gated
// producer still waiting on frames.
func (p *MockProvider) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, streams := range p.opened {
		for _, s := range streams {
			s.Close() //nolint:errcheck // test teardown
		}
	}
}

// LastOpened returns the most recent stream for a location, nil if it
// was never opened.
func (p *MockProvider) LastOpened(location string) *MockStream {
	p.mu.Lock()
	defer p.mu.Unlock()
	streams := p.opened[location]
	if len(streams) == 0 {
		return nil
	}
	return streams[len(streams)-1]
}

// MockStream produces frames whose sample values encode the absolute
// frame index, so tests can assert exact positions and splice points.
// Sample value at frame i is Seed+i in both channels.
type MockStream struct {
	mu        sync.Mutex
	cond      *sync.Cond
	spec      StreamSpec
	rate      int
	pos       int64
	allowance int64
	closed    bool
	err       error
}

func newMockStream(spec StreamSpec, rate int) *MockStream {
	s := &MockStream{spec: spec, rate: rate}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Release grants a gated stream n more frames. It has no effect on
// ungated streams.
func (s *MockStream) Release(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowance += n
	s.cond.Broadcast()
}

// Fail injects a decode error that surfaces on the next Stream call.
func (s *MockStream) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.cond.Broadcast()
}

func (s *MockStream) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.closed {
			return 0, false
		}
		if s.err != nil {
			return 0, false
		}
		if s.pos >= s.spec.TotalFrames {
			return 0, false
		}
		if s.spec.FailAfter > 0 && s.pos >= s.spec.FailAfter {
			s.err = errDecodeInjected
			return 0, false
		}
		if !s.spec.Gated || s.allowance > 0 {
			break
		}
		s.cond.Wait()
	}

	n := int64(len(samples))
	if remaining := s.spec.TotalFrames - s.pos; n > remaining {
		n = remaining
	}
	if s.spec.FailAfter > 0 {
		if remaining := s.spec.FailAfter - s.pos; n > remaining {
			n = remaining
		}
	}
	if s.spec.Gated && n > s.allowance {
		n = s.allowance
	}

	for i := int64(0); i < n; i++ {
		v := s.spec.Seed + float64(s.pos+i)
		samples[i][0] = v
		samples[i][1] = v
	}
	s.pos += n
	if s.spec.Gated {
		s.allowance -= n
	}
	return int(n), true
}

func (s *MockStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.err
}

func (s *MockStream) SeekTo(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = int64(d) * int64(s.rate) / int64(time.Second)
	return nil
}

func (s *MockStream) Duration() time.Duration {
	return time.Duration(s.spec.TotalFrames) * time.Second / time.Duration(s.rate)
}

// Pos reports how many frames the stream has produced.
func (s *MockStream) Pos() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
	return nil
}

var errDecodeInjected = errors.New("injected decode failure")
