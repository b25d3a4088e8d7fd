package playback

import "sync/atomic"

// ring carries decoded frames from a session's decode goroutine to the
// audio callback. The channel of chunks gives backpressure for free:
// the producer blocks once the ring is full, the consumer never blocks
// at all. Closing the channel is the end-of-stream signal.
//
// current holds the partially consumed chunk and is only touched by the
// consumer, so it needs no locking.
type ring struct {
	chunks   chan [][2]float64
	current  [][2]float64
	buffered atomic.Int64
}

func newRing(capacityFrames, chunkFrames int) *ring {
	n := capacityFrames / chunkFrames
	if n < 1 {
		n = 1
	}
	return &ring{chunks: make(chan [][2]float64, n)}
}

// push blocks until the chunk is accepted or quit closes. It reports
// whether the chunk was accepted.
func (r *ring) push(chunk [][2]float64, quit <-chan struct{}) bool {
	select {
	case <-quit:
		return false
	default:
	}
	select {
	case r.chunks <- chunk:
		r.buffered.Add(int64(len(chunk)))
		return true
	case <-quit:
		return false
	}
}

// closeWrite marks the end of the stream. Producer side only, once.
func (r *ring) closeWrite() {
	close(r.chunks)
}

// read copies up to len(dst) frames without blocking. done reports that
// the producer has finished and nothing is left to read.
func (r *ring) read(dst [][2]float64) (n int, done bool) {
	filled := 0
	for filled < len(dst) {
		if len(r.current) == 0 {
			select {
			case chunk, open := <-r.chunks:
				if !open {
					return filled, true
				}
				r.current = chunk
			default:
				return filled, false
			}
		}
		c := copy(dst[filled:], r.current)
		r.current = r.current[c:]
		filled += c
		r.buffered.Add(int64(-c))
	}
	return filled, false
}

// frames reports how many frames are buffered.
func (r *ring) frames() int64 {
	return r.buffered.Load()
}
