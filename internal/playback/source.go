package playback

import (
	"math"
	"sync/atomic"
)

// source is the device-facing frame supplier. It never blocks: when the
// current session has nothing buffered it fills silence and raises the
// stalled flag. The current and next slots are atomic pointers, so the
// control loop swaps sessions without stopping audio and the audio
// callback performs the gapless handoff itself at the drain point.
//
// rampLeft is consumer local. It is armed whenever silence was emitted
// so the next audible frames fade in instead of clicking. A gapless
// handoff emits no silence and therefore does not ramp.
type source struct {
	cur     atomic.Pointer[session]
	next    atomic.Pointer[session]
	paused  atomic.Bool
	stalled atomic.Bool
	gain    atomic.Uint64

	rampLeft   int
	rampFrames int

	notify chan struct{}
}

func newSource(rampFrames int) *source {
	s := &source{
		rampFrames: rampFrames,
		notify:     make(chan struct{}, 1),
	}
	s.SetGain(1)
	return s
}

func (s *source) Stream(samples [][2]float64) (int, bool) {
	if s.paused.Load() {
		zero(samples)
		s.rampLeft = s.rampFrames
		return len(samples), true
	}

	gain := math.Float64frombits(s.gain.Load())
	filled := 0
	for {
		cur := s.cur.Load()
		if cur == nil {
			zero(samples[filled:])
			s.rampLeft = s.rampFrames
			if s.stalled.CompareAndSwap(true, false) {
				s.wake()
			}
			return len(samples), true
		}

		n, done := cur.ring.read(samples[filled:])
		if n > 0 {
			s.applyGain(samples[filled:filled+n], gain)
			cur.consumed.Add(int64(n))
			filled += n
			if s.stalled.CompareAndSwap(true, false) {
				s.wake()
			}
		}
		if filled == len(samples) {
			return filled, true
		}

		if done {
			nxt := s.next.Swap(nil)
			if nxt != nil {
				if !s.cur.CompareAndSwap(cur, nxt) {
					// The control loop replaced the current slot mid
					// handoff. Hand the prefetched session back, or drop
					// it if that slot was refilled too.
					if !s.next.CompareAndSwap(nil, nxt) {
						nxt.stop()
					}
				}
			} else {
				s.cur.CompareAndSwap(cur, nil)
			}
			s.wake()
			continue
		}

		// Underrun: the ring is open but empty. Hold the clock by
		// consuming nothing and play silence until frames return.
		zero(samples[filled:])
		if s.stalled.CompareAndSwap(false, true) {
			s.wake()
		}
		s.rampLeft = s.rampFrames
		return len(samples), true
	}
}

func (s *source) Err() error { return nil }

func (s *source) applyGain(frames [][2]float64, gain float64) {
	for i := range frames {
		g := gain
		if s.rampLeft > 0 {
			g *= float64(s.rampFrames-s.rampLeft) / float64(s.rampFrames)
			s.rampLeft--
		}
		frames[i][0] *= g
		frames[i][1] *= g
	}
}

func (s *source) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Wake returns the coalescing notification channel. The control loop
// selects on it and reconciles against the slots, so a dropped signal
// only delays reconciliation until the next tick.
func (s *source) Wake() <-chan struct{} {
	return s.notify
}

func (s *source) Current() *session { return s.cur.Load() }

func (s *source) Next() *session { return s.next.Load() }

// SetCurrent replaces the current slot if it still holds old, and
// reports whether the swap happened. A false return means the audio
// callback won a concurrent handoff; the caller should reconcile and
// retry.
func (s *source) SetCurrent(old, new *session) bool {
	return s.cur.CompareAndSwap(old, new)
}

func (s *source) ArmNext(sess *session) {
	s.next.Store(sess)
}

// DisarmNext empties the next slot and returns whatever was armed.
func (s *source) DisarmNext() *session {
	return s.next.Swap(nil)
}

func (s *source) SetPaused(p bool) { s.paused.Store(p) }

func (s *source) Paused() bool { return s.paused.Load() }

func (s *source) Stalled() bool { return s.stalled.Load() }

func (s *source) SetGain(g float64) {
	s.gain.Store(math.Float64bits(g))
}

func zero(frames [][2]float64) {
	for i := range frames {
		frames[i][0] = 0
		frames[i][1] = 0
	}
}
