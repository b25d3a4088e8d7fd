// Package device abstracts the audio output.
package device

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// Source feeds stereo frames to the output. Implementations must never
// block inside Stream: a starved source fills silence instead.
type Source interface {
	Stream(samples [][2]float64) (n int, ok bool)
	Err() error
}

// Output is an audio sink that pulls from a Source on its own callback
// goroutine. It is opened once per engine lifetime.
type Output interface {
	Open(sampleRate int) error
	Play(src Source)
	Close() error
}

// Speaker plays through the system default output.
type Speaker struct {
	rate beep.SampleRate
}

func NewSpeaker() *Speaker {
	return &Speaker{}
}

func (s *Speaker) Open(sampleRate int) error {
	s.rate = beep.SampleRate(sampleRate)
	if err := speaker.Init(s.rate, s.rate.N(time.Second/10)); err != nil {
		return &domain.DeviceError{Err: fmt.Errorf("failed to initialize speaker: %w", err)}
	}
	return nil
}

func (s *Speaker) Play(src Source) {
	speaker.Play(src)
}

func (s *Speaker) Close() error {
	speaker.Close()
	return nil
}
