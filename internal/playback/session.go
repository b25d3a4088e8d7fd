package playback

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/media"
)

// session decodes one queue entry into a ring. It owns the stream and
// the decode goroutine; stop tears both down without blocking the
// caller.
type session struct {
	entry    domain.QueueEntry
	stream   media.Stream
	ring     *ring
	rate     int
	duration time.Duration
	startAt  time.Duration

	primeFrames int64
	chunkFrames int

	primed     chan struct{}
	primedOnce sync.Once
	quit       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}

	consumed atomic.Int64

	errMu sync.Mutex
	err   error
}

type sessionConfig struct {
	rate         int
	bufferFrames int
	primeFrames  int64
	chunkFrames  int
}

func newSession(entry domain.QueueEntry, stream media.Stream, startAt time.Duration, cfg sessionConfig) *session {
	s := &session{
		entry:       entry,
		stream:      stream,
		ring:        newRing(cfg.bufferFrames, cfg.chunkFrames),
		rate:        cfg.rate,
		startAt:     startAt,
		primeFrames: cfg.primeFrames,
		chunkFrames: cfg.chunkFrames,
		primed:      make(chan struct{}),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	s.duration = stream.Duration()
	if s.duration == 0 {
		s.duration = entry.Duration()
	}
	go s.run()
	return s
}

func (s *session) run() {
	defer close(s.done)
	defer s.ring.closeWrite()

	var produced int64
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		chunk := make([][2]float64, s.chunkFrames)
		n, ok := s.stream.Stream(chunk)
		if n > 0 {
			if !s.ring.push(chunk[:n], s.quit) {
				return
			}
			produced += int64(n)
			if produced >= s.primeFrames {
				s.signalPrimed()
			}
		}
		if !ok {
			if err := s.stream.Err(); err != nil {
				s.setErr(&domain.DecodeError{Location: s.entry.Location, Err: err})
			}
			// Tracks shorter than the prime threshold are ready at EOF.
			s.signalPrimed()
			return
		}
	}
}

func (s *session) signalPrimed() {
	s.primedOnce.Do(func() { close(s.primed) })
}

// stop tears the session down. The stream is closed only after the
// decode goroutine exits so it is never closed mid read.
func (s *session) stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		go func() {
			<-s.done
			s.stream.Close() //nolint:errcheck // deferred cleanup
		}()
	})
}

func (s *session) isPrimed() bool {
	select {
	case <-s.primed:
		return true
	default:
		return false
	}
}

func (s *session) decodeDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *session) setErr(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
}

func (s *session) error() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// position is the playback clock: frames handed to the device on top
// of the seek offset. It advances only when the audio callback consumes
// frames, so pauses and stalls hold it still.
func (s *session) position() time.Duration {
	return s.startAt + time.Duration(s.consumed.Load())*time.Second/time.Duration(s.rate)
}
