// Package playback runs the audio pipeline: a control loop that owns
// the queue and session lifecycle, decode sessions that fill ring
// buffers, and a lock-free source the output device pulls from.
package playback

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/device"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/media"
)

var errEngineClosed = errors.New("engine closed")

type Options struct {
	Provider media.Provider
	Output   device.Output
	Bus      *events.Bus
	Logger   *logger.Logger

	SampleRate     int
	BufferDur      time.Duration
	StartBufferDur time.Duration
	// PrefetchLookahead enables gapless prefetch of the next queue entry
	// when positive. Zero disables it; advances then go through a fresh
	// load at the drain point.
	PrefetchLookahead time.Duration
	PositionInterval  time.Duration
	PrevRestartAfter  time.Duration
}

// Engine coordinates playback. All mutable state lives in the control
// loop goroutine; public methods post commands to it and wait for the
// reply, so callers observe a consistent engine.
type Engine struct {
	provider media.Provider
	output   device.Output
	bus      *events.Bus
	log      *logger.Logger

	rate         int
	bufferFrames int
	primeFrames  int64
	lookahead    time.Duration
	tickInterval time.Duration
	prevRestart  time.Duration

	src   *source
	queue *queue

	cmdCh  chan command
	loadCh chan loadResult
	quitCh chan struct{}
	doneCh chan struct{}

	// control loop state, never touched outside the loop
	state         domain.PlaybackState
	current       *session
	next          *session
	loading       *pendingLoad
	loadingNext   *pendingLoad
	volume        float64
	stalledSeen   bool
	lastPos       time.Duration
	lastDur       time.Duration
	loadGen       uint64
	prefetchSkip  string
	failWalkStart string
}

type command struct {
	fn    func() error
	reply chan error
}

type pendingLoad struct {
	gen    uint64
	entry  domain.QueueEntry
	target time.Duration
	sess   *session
}

type loadResult struct {
	gen      uint64
	entry    domain.QueueEntry
	target   time.Duration
	sess     *session
	err      error
	prefetch bool
}

func New(opts Options) *Engine {
	if opts.SampleRate <= 0 {
		opts.SampleRate = constants.DefaultSampleRate
	}
	if opts.BufferDur <= 0 {
		opts.BufferDur = constants.DefaultBufferDur
	}
	if opts.StartBufferDur <= 0 {
		opts.StartBufferDur = constants.DefaultStartBufferDur
	}
	if opts.PositionInterval <= 0 {
		opts.PositionInterval = constants.DefaultPositionInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	e := &Engine{
		provider:     opts.Provider,
		output:       opts.Output,
		bus:          opts.Bus,
		log:          opts.Logger.WithComponent("playback"),
		rate:         opts.SampleRate,
		bufferFrames: int(int64(opts.SampleRate) * int64(opts.BufferDur) / int64(time.Second)),
		primeFrames:  int64(opts.SampleRate) * int64(opts.StartBufferDur) / int64(time.Second),
		lookahead:    opts.PrefetchLookahead,
		tickInterval: opts.PositionInterval,
		prevRestart:  opts.PrevRestartAfter,
		src:          newSource(constants.RampFrames),
		queue:        newQueue(),
		cmdCh:        make(chan command),
		loadCh:       make(chan loadResult, constants.NotifyChannelSize),
		quitCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		state:        domain.StateIdle,
		volume:       constants.DefaultVolume,
	}
	go e.run()
	return e
}

// Start opens the output device and begins pulling audio.
func (e *Engine) Start() error {
	if err := e.output.Open(e.rate); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	e.output.Play(e.src)
	return nil
}

func (e *Engine) Close() {
	select {
	case <-e.quitCh:
		return
	default:
	}
	close(e.quitCh)
	<-e.doneCh

	e.dropSessions()
	e.output.Close() //nolint:errcheck // shutdown
}

func (e *Engine) run() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitCh:
			return
		case cmd := <-e.cmdCh:
			e.reconcile()
			cmd.reply <- cmd.fn()
		case res := <-e.loadCh:
			e.handleLoadResult(res)
			e.reconcile()
		case <-e.src.Wake():
			e.reconcile()
		case <-ticker.C:
			e.reconcile()
			e.tick()
		}
	}
}

func (e *Engine) do(fn func() error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case e.cmdCh <- cmd:
	case <-e.quitCh:
		return errEngineClosed
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-e.quitCh:
		return errEngineClosed
	}
}

// reconcile brings the control loop's view in line with what the audio
// callback did since the last pass. It is idempotent, so a coalesced
// or dropped wakeup only delays it until the next tick.
func (e *Engine) reconcile() {
	// A loading session that reached its prime threshold becomes
	// current. One that failed before producing anything is skipped
	// without playing.
	if e.loading != nil && e.loading.sess != nil && e.loading.sess.isPrimed() {
		sess := e.loading.sess
		e.loading = nil
		if err := sess.error(); err != nil && sess.ring.frames() == 0 {
			sess.stop()
			e.log.Error("Track failed to decode", "location", sess.entry.Location, "error", err)
			e.advanceAfterFailure(sess.entry)
		} else {
			e.installCurrent(sess)
		}
	}

	cur := e.src.Current()
	if cur != e.current {
		if cur != nil {
			// The audio callback handed off to the prefetched session.
			old := e.current
			e.current = cur
			if e.next == cur {
				e.next = nil
			}
			if old != nil {
				old.stop()
			}
			e.queue.CommitTo(cur.entry.QueueID)
			e.prefetchSkip = ""
			e.failWalkStart = ""
			e.lastDur = cur.duration
			e.emitTrack(cur.entry)
			e.bus.Publish(events.DurationChanged(cur.duration.Milliseconds()))
			e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		} else {
			// Drained with nothing armed.
			old := e.current
			e.current = nil
			var failed bool
			var lastEntry domain.QueueEntry
			if old != nil {
				lastEntry = old.entry
				old.stop()
				if err := old.error(); err != nil {
					failed = true
					e.log.Error("Playback failed", "location", lastEntry.Location, "error", err)
				}
			}
			if e.loading == nil && e.state != domain.StateIdle {
				if failed {
					e.advanceAfterFailure(lastEntry)
				} else {
					e.autoAdvance()
				}
			}
		}
	}

	stalled := e.src.Stalled() && e.state == domain.StatePlaying
	if stalled != e.stalledSeen {
		e.stalledSeen = stalled
		if stalled {
			e.log.Warn("Playback stalled, decoder is behind")
			e.bus.Publish(events.Stalled())
		} else {
			e.bus.Publish(events.Resumed())
		}
	}

	// Draining means the final track has fully decoded and only
	// buffered frames remain.
	if e.state == domain.StatePlaying && e.current != nil && e.current.decodeDone() &&
		e.next == nil && e.loadingNext == nil {
		if _, ok := e.queue.PeekNext(); !ok {
			e.setState(domain.StateDraining)
		}
	}
	if e.state == domain.StateDraining {
		if e.next != nil || e.loadingNext != nil {
			e.setState(domain.StatePlaying)
		} else if _, ok := e.queue.PeekNext(); ok {
			e.setState(domain.StatePlaying)
		}
	}
}

func (e *Engine) tick() {
	if e.state == domain.StatePlaying || e.state == domain.StateDraining {
		pos := e.positionNow()
		if pos != e.lastPos {
			e.lastPos = pos
			e.bus.Publish(events.PositionChanged(pos.Milliseconds()))
		}
	}
	e.maybeArmPrefetch()
}

// maybeArmPrefetch opens the next queue entry once the current track is
// inside the lookahead window, so the handoff at the drain point is
// gapless.
func (e *Engine) maybeArmPrefetch() {
	if e.lookahead <= 0 || e.state != domain.StatePlaying {
		return
	}
	if e.current == nil || e.next != nil || e.loadingNext != nil || e.current.duration <= 0 {
		return
	}
	if e.current.duration-e.positionNow() > e.lookahead {
		return
	}

	var entry domain.QueueEntry
	var ok bool
	if e.prefetchSkip != "" {
		entry, ok = e.queue.EntryAfter(e.prefetchSkip)
	} else {
		entry, ok = e.queue.PeekNext()
	}
	if !ok {
		return
	}
	e.loadingNext = e.startLoad(entry, 0, true)
}

func (e *Engine) startLoad(entry domain.QueueEntry, target time.Duration, prefetch bool) *pendingLoad {
	e.loadGen++
	p := &pendingLoad{gen: e.loadGen, entry: entry, target: target}
	go func() {
		stream, err := e.provider.Open(entry.Location)
		if err == nil && target > 0 {
			if serr := stream.SeekTo(target); serr != nil {
				stream.Close() //nolint:errcheck // already failing
				stream, err = nil, serr
			}
		}
		var sess *session
		if err == nil {
			sess = newSession(entry, stream, target, e.sessionCfg())
		}
		select {
		case e.loadCh <- loadResult{gen: p.gen, entry: entry, target: target, sess: sess, err: err, prefetch: prefetch}:
		case <-e.quitCh:
			if sess != nil {
				sess.stop()
			} else if stream != nil {
				stream.Close() //nolint:errcheck // shutdown
			}
		}
	}()
	return p
}

func (e *Engine) handleLoadResult(res loadResult) {
	if res.prefetch {
		if e.loadingNext == nil || res.gen != e.loadingNext.gen {
			if res.sess != nil {
				res.sess.stop()
			}
			return
		}
		e.loadingNext = nil
		if res.err != nil {
			e.log.Warn("Prefetch failed, trying the following entry", "location", res.entry.Location, "error", res.err)
			e.prefetchSkip = res.entry.QueueID
			return
		}
		if e.current == nil {
			res.sess.stop()
			return
		}
		e.next = res.sess
		e.src.ArmNext(res.sess)
		return
	}

	if e.loading == nil || res.gen != e.loading.gen {
		if res.sess != nil {
			res.sess.stop()
		}
		return
	}
	if res.err != nil {
		e.loading = nil
		e.log.Error("Failed to open track", "location", res.entry.Location, "error", res.err)
		e.advanceAfterFailure(res.entry)
		return
	}
	e.loading.sess = res.sess
	go func(s *session) {
		select {
		case <-s.primed:
		case <-s.quit:
		}
		e.src.wake()
	}(res.sess)
}

// startTrack replaces whatever is playing with a fresh session for the
// entry. announce controls the track change event: seeks and restarts
// keep the same track and stay silent.
func (e *Engine) startTrack(entry domain.QueueEntry, target time.Duration, announce bool) {
	e.dropSessions()
	e.prefetchSkip = ""
	e.loading = e.startLoad(entry, target, false)
	e.lastPos = target
	e.lastDur = entry.Duration()
	e.setState(domain.StateLoading)
	if announce {
		e.emitTrack(entry)
	}
}

func (e *Engine) dropSessions() {
	if n := e.src.DisarmNext(); n != nil {
		n.stop()
	}
	if e.next != nil {
		e.next.stop()
		e.next = nil
	}
	for {
		cur := e.src.Current()
		if cur == nil {
			break
		}
		if e.src.SetCurrent(cur, nil) {
			cur.stop()
			break
		}
	}
	if e.current != nil {
		e.current.stop()
		e.current = nil
	}
	e.loading = nil
	e.loadingNext = nil
}

func (e *Engine) invalidatePrefetch() {
	if n := e.src.DisarmNext(); n != nil {
		n.stop()
	}
	if e.next != nil {
		e.next.stop()
		e.next = nil
	}
	e.loadingNext = nil
	e.prefetchSkip = ""
}

func (e *Engine) installCurrent(sess *session) {
	for {
		old := e.src.Current()
		if e.src.SetCurrent(old, sess) {
			if old != nil {
				old.stop()
			}
			break
		}
	}
	if e.current != nil && e.current != sess {
		e.current.stop()
	}
	e.current = sess
	e.failWalkStart = ""
	e.lastDur = sess.duration
	e.bus.Publish(events.DurationChanged(sess.duration.Milliseconds()))
	if e.src.Paused() {
		e.setState(domain.StatePaused)
	} else {
		e.setState(domain.StatePlaying)
	}
}

func (e *Engine) autoAdvance() {
	entry, ok := e.queue.Next(true)
	if !ok {
		e.lastPos = e.lastDur
		e.setState(domain.StateEnded)
		return
	}
	e.startTrack(entry, 0, true)
	e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
}

// advanceAfterFailure moves past a track that could not be decoded. It
// walks forward entry by entry and gives up with a failed state when
// the walk comes back around to where it started.
func (e *Engine) advanceAfterFailure(failed domain.QueueEntry) {
	if e.failWalkStart == "" {
		e.failWalkStart = failed.QueueID
	} else if e.failWalkStart == failed.QueueID {
		e.failWalkStart = ""
		e.dropSessions()
		e.setState(domain.StateFailed)
		return
	}

	if entry, ok := e.queue.EntryAfter(failed.QueueID); ok {
		e.queue.CommitTo(entry.QueueID)
		e.startTrack(entry, 0, true)
		e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		return
	}
	if e.queue.Repeat() == domain.RepeatQueue {
		if entry, ok := e.queue.Jump(0); ok && entry.QueueID != failed.QueueID {
			e.startTrack(entry, 0, true)
			e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
			return
		}
	}
	e.dropSessions()
	e.setState(domain.StateFailed)
}

func (e *Engine) endPlayback() {
	e.dropSessions()
	e.src.SetPaused(false)
	e.setState(domain.StateEnded)
}

func (e *Engine) stopLocked() {
	e.dropSessions()
	e.src.SetPaused(false)
	e.lastPos = 0
	e.lastDur = 0
	e.failWalkStart = ""
	e.setState(domain.StateIdle)
}

func (e *Engine) playLocked() {
	switch e.state {
	case domain.StatePlaying, domain.StateLoading, domain.StateDraining:
		return
	case domain.StatePaused:
		e.resumeLocked()
		return
	}
	if e.queue.Len() == 0 {
		return
	}
	e.failWalkStart = ""
	entry, ok := e.queue.Current()
	if !ok {
		entry, _ = e.queue.Jump(0)
	}
	e.startTrack(entry, 0, true)
	e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
}

func (e *Engine) pauseLocked() {
	switch e.state {
	case domain.StatePlaying, domain.StateDraining:
		e.src.SetPaused(true)
		e.setState(domain.StatePaused)
	case domain.StateLoading:
		// Honored once the session installs.
		e.src.SetPaused(true)
	}
}

func (e *Engine) resumeLocked() {
	switch e.state {
	case domain.StatePaused:
		e.src.SetPaused(false)
		if e.current != nil && e.current.decodeDone() && e.next == nil && e.loadingNext == nil {
			if _, ok := e.queue.PeekNext(); !ok {
				e.setState(domain.StateDraining)
				return
			}
		}
		e.setState(domain.StatePlaying)
	case domain.StateLoading:
		e.src.SetPaused(false)
	}
}

func (e *Engine) userNext() {
	e.failWalkStart = ""
	entry, ok := e.queue.Next(false)
	if !ok {
		switch e.state {
		case domain.StateLoading, domain.StatePlaying, domain.StatePaused, domain.StateDraining:
			e.endPlayback()
		}
		return
	}
	e.startTrack(entry, 0, true)
	e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
}

func (e *Engine) userPrevious() {
	e.failWalkStart = ""
	audible := e.state == domain.StatePlaying || e.state == domain.StatePaused ||
		e.state == domain.StateLoading || e.state == domain.StateDraining
	if audible && e.prevRestart > 0 && e.positionNow() > e.prevRestart {
		if cur, ok := e.currentEntry(); ok {
			e.startTrack(cur, 0, false)
			return
		}
	}
	if !audible {
		if entry, ok := e.queue.Last(); ok {
			e.startTrack(entry, 0, true)
			e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		}
		return
	}
	entry, ok := e.queue.Previous()
	if !ok {
		return
	}
	e.startTrack(entry, 0, true)
	e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
}

func (e *Engine) currentEntry() (domain.QueueEntry, bool) {
	if e.current != nil {
		return e.current.entry, true
	}
	if e.loading != nil {
		return e.loading.entry, true
	}
	return domain.QueueEntry{}, false
}

func (e *Engine) positionNow() time.Duration {
	var pos time.Duration
	switch {
	case e.loading != nil:
		pos = e.loading.target
	case e.current != nil:
		pos = e.current.position()
	default:
		return e.lastPos
	}
	if dur := e.currentDuration(); dur > 0 && pos > dur {
		pos = dur
	}
	return pos
}

func (e *Engine) currentDuration() time.Duration {
	if e.current != nil {
		return e.current.duration
	}
	return e.lastDur
}

func (e *Engine) setState(s domain.PlaybackState) {
	if e.state == s {
		return
	}
	e.state = s
	e.bus.Publish(events.StateChanged(s))
}

func (e *Engine) emitTrack(entry domain.QueueEntry) {
	e.bus.Publish(events.TrackChanged(&entry, e.queue.Pos()))
}

func (e *Engine) sessionCfg() sessionConfig {
	return sessionConfig{
		rate:         e.rate,
		bufferFrames: e.bufferFrames,
		primeFrames:  e.primeFrames,
		chunkFrames:  constants.ChunkFrames,
	}
}

func toQueueEntries(entries []domain.LibraryEntry) []domain.QueueEntry {
	out := make([]domain.QueueEntry, len(entries))
	for i, le := range entries {
		out[i] = domain.QueueEntry{QueueID: uuid.NewString(), LibraryEntry: le}
	}
	return out
}

// Play starts or resumes playback. With nothing playing it starts at
// the queue position, or the head for a fresh queue. An empty queue is
// a no-op.
func (e *Engine) Play() error {
	return e.do(func() error {
		e.playLocked()
		return nil
	})
}

func (e *Engine) Pause() error {
	return e.do(func() error {
		e.pauseLocked()
		return nil
	})
}

func (e *Engine) Resume() error {
	return e.do(func() error {
		e.resumeLocked()
		return nil
	})
}

func (e *Engine) Toggle() error {
	return e.do(func() error {
		switch e.state {
		case domain.StatePlaying, domain.StateDraining:
			e.pauseLocked()
		case domain.StatePaused:
			e.resumeLocked()
		case domain.StateLoading:
			if e.src.Paused() {
				e.resumeLocked()
			} else {
				e.pauseLocked()
			}
		default:
			e.playLocked()
		}
		return nil
	})
}

// Stop tears playback down and returns to idle. The queue and its
// position survive, so Play picks up where Stop left off.
func (e *Engine) Stop() error {
	return e.do(func() error {
		e.stopLocked()
		return nil
	})
}

func (e *Engine) Next() error {
	return e.do(func() error {
		e.userNext()
		return nil
	})
}

// Previous restarts the current track when it has played past the
// restart threshold, otherwise it steps back. At the head it does
// nothing, and with nothing playing it jumps to the final entry.
func (e *Engine) Previous() error {
	return e.do(func() error {
		e.userPrevious()
		return nil
	})
}

// Seek jumps within the current track by replacing the decode session
// with a fresh one positioned at target. Out of range targets are
// rejected without side effects.
func (e *Engine) Seek(target time.Duration) error {
	return e.do(func() error {
		entry, ok := e.currentEntry()
		if !ok {
			return domain.ErrSeekOutOfRange
		}
		dur := e.currentDuration()
		if target < 0 || (dur > 0 && target > dur) {
			return domain.ErrSeekOutOfRange
		}
		e.startTrack(entry, target, false)
		return nil
	})
}

func (e *Engine) SetVolume(v float64) error {
	return e.do(func() error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid volume")
		}
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		e.volume = v
		e.src.SetGain(scaleVolume(v))
		e.bus.Publish(events.VolumeChanged(v))
		return nil
	})
}

func (e *Engine) Volume() float64 {
	var v float64
	e.do(func() error { //nolint:errcheck // zero value on closed engine
		v = e.volume
		return nil
	})
	return v
}

func (e *Engine) SetShuffle(on bool) error {
	return e.do(func() error {
		if on == e.queue.Shuffled() {
			return nil
		}
		e.queue.SetShuffle(on)
		e.invalidatePrefetch()
		e.bus.Publish(events.ShuffleToggled(on))
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		return nil
	})
}

func (e *Engine) ToggleShuffle() (bool, error) {
	var on bool
	err := e.do(func() error {
		on = !e.queue.Shuffled()
		e.queue.SetShuffle(on)
		e.invalidatePrefetch()
		e.bus.Publish(events.ShuffleToggled(on))
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		return nil
	})
	return on, err
}

func (e *Engine) SetRepeat(mode domain.RepeatMode) error {
	return e.do(func() error {
		switch mode {
		case domain.RepeatOff, domain.RepeatTrack, domain.RepeatQueue:
		default:
			return fmt.Errorf("invalid repeat mode %q", mode)
		}
		if mode == e.queue.Repeat() {
			return nil
		}
		e.queue.SetRepeat(mode)
		e.invalidatePrefetch()
		e.bus.Publish(events.RepeatChanged(mode))
		return nil
	})
}

func (e *Engine) Status() domain.Status {
	var st domain.Status
	e.do(func() error { //nolint:errcheck // zero value on closed engine
		st = domain.Status{
			State:       e.state,
			QueueIndex:  e.queue.Pos(),
			QueueLength: e.queue.Len(),
			Position:    e.positionNow(),
			Duration:    e.currentDuration(),
			Volume:      e.volume,
			Shuffle:     e.queue.Shuffled(),
			Repeat:      e.queue.Repeat(),
			Stalled:     e.stalledSeen,
		}
		if entry, ok := e.currentEntry(); ok {
			st.Entry = &entry
		}
		return nil
	})
	return st
}

func (e *Engine) Queue() []domain.QueueEntry {
	var entries []domain.QueueEntry
	e.do(func() error { //nolint:errcheck // zero value on closed engine
		entries = e.queue.Entries()
		return nil
	})
	return entries
}

// Enqueue appends entries to the end of the queue.
func (e *Engine) Enqueue(entries []domain.LibraryEntry) error {
	return e.do(func() error {
		if len(entries) == 0 {
			return nil
		}
		e.queue.Append(toQueueEntries(entries)...)
		e.invalidatePrefetch()
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		return nil
	})
}

// EnqueueAt inserts entries at index i, clamping past-the-end indexes.
func (e *Engine) EnqueueAt(i int, entries []domain.LibraryEntry) error {
	return e.do(func() error {
		if len(entries) == 0 {
			return nil
		}
		e.queue.InsertAt(i, toQueueEntries(entries)...)
		e.invalidatePrefetch()
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		return nil
	})
}

// RemoveAt removes the entry at index i. Removing the playing entry
// does not interrupt audio; the queue advances past it naturally.
func (e *Engine) RemoveAt(i int) error {
	return e.do(func() error {
		if _, ok := e.queue.Remove(i); !ok {
			return domain.ErrNotFound
		}
		e.invalidatePrefetch()
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		return nil
	})
}

func (e *Engine) MoveEntry(from, to int) error {
	return e.do(func() error {
		if !e.queue.Move(from, to) {
			return domain.ErrNotFound
		}
		e.invalidatePrefetch()
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		return nil
	})
}

// ReplaceQueue swaps the queue out and starts playing its first entry.
// An empty list clears the queue and stops playback.
func (e *Engine) ReplaceQueue(entries []domain.LibraryEntry) error {
	return e.ReplaceQueueAt(entries, 0)
}

// ReplaceQueueAt swaps the queue out and starts playing at index start,
// which is how "play this track in its list" works: the list becomes the
// queue and playback begins at the picked entry. start addresses the
// list as given, even when shuffle reorders the new queue.
func (e *Engine) ReplaceQueueAt(entries []domain.LibraryEntry, start int) error {
	return e.do(func() error {
		e.failWalkStart = ""
		e.queue.Replace(toQueueEntries(entries))
		e.invalidatePrefetch()
		e.bus.Publish(events.QueueUpdated(e.queue.Len()))
		entry, ok := e.queue.JumpUnshuffled(start)
		if !ok {
			entry, ok = e.queue.Jump(0)
		}
		if !ok {
			e.stopLocked()
			return nil
		}
		e.startTrack(entry, 0, true)
		e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		return nil
	})
}

// ClearQueue empties the queue. Whatever is playing keeps playing and
// ends naturally.
func (e *Engine) ClearQueue() error {
	return e.do(func() error {
		e.queue.Clear()
		e.invalidatePrefetch()
		e.bus.Publish(events.QueueUpdated(0))
		return nil
	})
}

func (e *Engine) Jump(i int) error {
	return e.do(func() error {
		entry, ok := e.queue.Jump(i)
		if !ok {
			return domain.ErrNotFound
		}
		e.failWalkStart = ""
		e.startTrack(entry, 0, true)
		e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		return nil
	})
}

// JumpUnshuffled addresses an entry by its index in the unshuffled
// order, which is what a client showing the original list sees.
func (e *Engine) JumpUnshuffled(i int) error {
	return e.do(func() error {
		entry, ok := e.queue.JumpUnshuffled(i)
		if !ok {
			return domain.ErrNotFound
		}
		e.failWalkStart = ""
		e.startTrack(entry, 0, true)
		e.bus.Publish(events.QueuePositionChanged(e.queue.Pos()))
		return nil
	})
}
