package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/cesargomez89/hummingbird/internal/device"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/media"
)

func (f *engineFixture) brokenTrack(id int64) domain.LibraryEntry {
	e := f.track(id, 100, 0)
	f.provider.SetSpec(e.Location, media.StreamSpec{OpenErr: errors.New("no such file")})
	return e
}

func TestEngine_PartialDecodeFailurePlaysThenSkips(t *testing.T) {
	f := newEngineFixture(t, nil)
	log := collectEvents(t, f.bus)

	a := f.track(1, 1000, 1000)
	f.provider.SetSpec(a.Location, media.StreamSpec{TotalFrames: 1000, Seed: 1000, FailAfter: 50})
	b := f.track(2, 300, 2000)
	f.engine.ReplaceQueue([]domain.LibraryEntry{a, b}) //nolint:errcheck // checked via state

	// The session decoded 50 frames before failing, so they play.
	f.waitState(domain.StatePlaying)
	buf := f.output.Pump(50)
	for i := range buf {
		if buf[i][0] != 1000+float64(i) {
			t.Fatalf("Expected decoded frame %d to play, got %f", i, buf[i][0])
		}
	}

	// Hitting the failure point advances to the next track.
	f.output.Pump(20)
	f.waitEntry(2)
	f.waitState(domain.StatePlaying)

	f.pumpUntil(domain.StateEnded)
	for _, s := range log.states() {
		if s == domain.StateFailed {
			t.Error("Expected the failure to skip, not fail playback")
		}
	}
	if got := f.provider.OpenCount(b.Location); got != 1 {
		t.Errorf("Expected the next track opened once, got %d", got)
	}
}

func TestEngine_OpenFailureSkipsToNext(t *testing.T) {
	f := newEngineFixture(t, nil)

	a := f.brokenTrack(1)
	b := f.track(2, 300, 2000)
	f.engine.ReplaceQueue([]domain.LibraryEntry{a, b}) //nolint:errcheck // checked via entry

	f.waitEntry(2)
	f.waitState(domain.StatePlaying)
	if got := f.engine.Status().QueueIndex; got != 1 {
		t.Errorf("Expected queue position on the playable track, got %d", got)
	}
	if got := f.provider.OpenCount(a.Location); got != 1 {
		t.Errorf("Expected a single attempt on the broken track, got %d", got)
	}
}

func TestEngine_AllTracksFailingEndsFailed(t *testing.T) {
	f := newEngineFixture(t, nil)

	a := f.brokenTrack(1)
	b := f.brokenTrack(2)
	c := f.brokenTrack(3)
	f.engine.ReplaceQueue([]domain.LibraryEntry{a, b, c}) //nolint:errcheck // checked via state

	f.waitState(domain.StateFailed)
	if st := f.engine.Status(); st.Entry != nil {
		t.Errorf("Expected no entry in the failed state, got %+v", st.Entry)
	}
	for _, e := range []domain.LibraryEntry{a, b, c} {
		if got := f.provider.OpenCount(e.Location); got != 1 {
			t.Errorf("Expected one attempt on %s, got %d", e.Location, got)
		}
	}

	// Once a track becomes readable, play recovers from the queue position.
	f.provider.SetSpec(c.Location, media.StreamSpec{TotalFrames: 300, Seed: 3000})
	if err := f.engine.Play(); err != nil {
		t.Fatalf("Failed to play: %v", err)
	}
	f.waitState(domain.StatePlaying)
	if st := f.engine.Status(); st.Entry == nil || st.Entry.ID != 3 {
		t.Errorf("Expected recovery on the fixed track, got %+v", st.Entry)
	}
}

func TestEngine_AllTracksFailingWithRepeatQueueStopsWalking(t *testing.T) {
	f := newEngineFixture(t, nil)

	a := f.brokenTrack(1)
	b := f.brokenTrack(2)
	c := f.brokenTrack(3)
	if err := f.engine.SetRepeat(domain.RepeatQueue); err != nil {
		t.Fatalf("Failed to set repeat: %v", err)
	}
	f.engine.ReplaceQueue([]domain.LibraryEntry{a, b, c}) //nolint:errcheck // checked via state

	// The wrap retries the head once; coming back around gives up
	// instead of walking forever.
	f.waitState(domain.StateFailed)
	if got := f.provider.OpenCount(a.Location); got != 2 {
		t.Errorf("Expected the head attempted twice, got %d", got)
	}
	if got := f.provider.OpenCount(b.Location); got != 1 {
		t.Errorf("Expected one attempt on the second track, got %d", got)
	}
	if got := f.provider.OpenCount(c.Location); got != 1 {
		t.Errorf("Expected one attempt on the third track, got %d", got)
	}
}

func TestEngine_PrefetchFailureTriesFollowingEntry(t *testing.T) {
	f := newEngineFixture(t, func(o *Options) {
		o.PrefetchLookahead = 200 * time.Millisecond
	})

	a := f.track(1, 1000, 10000)
	b := f.brokenTrack(2)
	c := f.track(3, 500, 30000)
	f.engine.ReplaceQueue([]domain.LibraryEntry{a, b, c}) //nolint:errcheck // checked via state
	f.waitState(domain.StatePlaying)

	f.output.Pump(850)
	waitCond(t, "prefetch to settle on the playable entry", func() bool {
		n := f.engine.src.Next()
		return n != nil && n.decodeDone()
	})

	buf := f.output.Pump(400)
	if buf[149][0] != 10000+999 {
		t.Errorf("Expected the first track to finish, got %f", buf[149][0])
	}
	if buf[150][0] != 30000 {
		t.Errorf("Expected a gapless handoff past the broken entry, got %f", buf[150][0])
	}

	f.waitEntry(3)
	if got := f.engine.Status().QueueIndex; got != 2 {
		t.Errorf("Expected queue position 2, got %d", got)
	}
	if got := f.provider.OpenCount(b.Location); got != 1 {
		t.Errorf("Expected one attempt on the broken entry, got %d", got)
	}
}

func TestEngine_PauseDuringLoadingInstallsPaused(t *testing.T) {
	f := newEngineFixture(t, nil)

	track := f.gatedTrack(1, 1000, 5000)
	f.engine.ReplaceQueue([]domain.LibraryEntry{track}) //nolint:errcheck // checked via state
	f.waitState(domain.StateLoading)

	if err := f.engine.Pause(); err != nil {
		t.Fatalf("Failed to pause: %v", err)
	}
	waitCond(t, "stream to open", func() bool { return f.provider.LastOpened(track.Location) != nil })
	f.provider.LastOpened(track.Location).Release(200)

	// The primed session installs paused instead of starting to play.
	f.waitState(domain.StatePaused)
	if got := f.engine.Status().Position; got != 0 {
		t.Errorf("Expected position 0 while paused, got %v", got)
	}
	buf := f.output.Pump(50)
	if buf[0][0] != 0 {
		t.Errorf("Expected silence while paused, got %f", buf[0][0])
	}

	f.engine.Resume() //nolint:errcheck // checked via state
	f.waitState(domain.StatePlaying)
	buf = f.output.Pump(100)
	if buf[1][0] == 0 {
		t.Error("Expected audio after resume")
	}
	if got := f.engine.Status().Position; got != 100*time.Millisecond {
		t.Errorf("Expected position 100ms, got %v", got)
	}
}

func TestEngine_DeviceOpenFailure(t *testing.T) {
	provider := media.NewMockProvider(1000)
	output := device.NewManualOutput()
	output.FailOpen = true
	bus := events.NewBus()
	e := New(Options{Provider: provider, Output: output, Bus: bus, SampleRate: 1000})
	defer func() {
		e.Close()
		bus.Close()
	}()

	err := e.Start()
	var devErr *domain.DeviceError
	if err == nil || !errors.As(err, &devErr) {
		t.Fatalf("Expected a device error, got %v", err)
	}
}

func TestEngine_CommandsAfterClose(t *testing.T) {
	f := newEngineFixture(t, nil)

	f.engine.Close()
	f.engine.Close()
	if err := f.engine.Play(); err == nil {
		t.Error("Expected an error from a closed engine")
	}
	if st := f.engine.Status(); st.State != "" {
		t.Errorf("Expected a zero status from a closed engine, got %+v", st)
	}
}
