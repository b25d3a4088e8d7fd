package app

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cesargomez89/hummingbird/internal/device"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/library"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/media"
	"github.com/cesargomez89/hummingbird/internal/playback"
	"github.com/cesargomez89/hummingbird/internal/store"
)

// fixture wires a real store, index and engine to a mock provider and a
// manually pumped output, the same rig the engine tests use.
type fixture struct {
	t        *testing.T
	db       *store.DB
	settings *store.SettingsRepo
	index    *library.Index
	bus      *events.Bus
	provider *media.MockProvider
	output   *device.ManualOutput
	engine   *playback.Engine
	service  *QueueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	f := &fixture{
		t:        t,
		db:       db,
		settings: store.NewSettingsRepo(db),
		bus:      events.NewBus(),
		provider: media.NewMockProvider(1000),
		output:   device.NewManualOutput(),
	}
	f.engine = playback.New(playback.Options{
		Provider:         f.provider,
		Output:           f.output,
		Bus:              f.bus,
		SampleRate:       1000,
		BufferDur:        500 * time.Millisecond,
		StartBufferDur:   100 * time.Millisecond,
		PositionInterval: 5 * time.Millisecond,
		PrevRestartAfter: 500 * time.Millisecond,
	})
	if err := f.engine.Start(); err != nil {
		t.Fatalf("Failed to start engine: %v", err)
	}
	f.index = library.NewIndex(db, f.bus, domain.ViewModeArtist, logger.Default())
	f.service = NewQueueService(f.index, db, f.engine, logger.Default())

	t.Cleanup(func() {
		f.engine.Close()
		f.provider.CloseAll()
		f.bus.Close()
		if err := db.Close(); err != nil {
			t.Logf("db.Close error: %v", err)
		}
	})
	return f
}

func i64(v int64) *int64 { return &v }

func (f *fixture) mustArtist(name string) int64 {
	f.t.Helper()
	a := &store.ArtistRow{Name: name, NameSortable: name}
	if err := f.db.CreateArtist(a); err != nil {
		f.t.Fatalf("CreateArtist failed: %v", err)
	}
	return a.ID
}

func (f *fixture) mustAlbum(title string, artistID *int64) int64 {
	f.t.Helper()
	a := &store.AlbumRow{Title: title, TitleSortable: title, ArtistID: artistID}
	if err := f.db.CreateAlbum(a); err != nil {
		f.t.Fatalf("CreateAlbum failed: %v", err)
	}
	return a.ID
}

// mustTrack creates a catalog row and a matching mock stream, so the
// engine can actually open what the service queues.
func (f *fixture) mustTrack(title string, albumID *int64, num int64) int64 {
	f.t.Helper()
	dur := 0.5
	tr := &store.TrackRow{
		Title:         title,
		TitleSortable: title,
		AlbumID:       albumID,
		Location:      "/music/" + title + ".flac",
		TrackNumber:   i64(num),
		DurationSecs:  &dur,
	}
	if err := f.db.CreateCatalogTrack(tr); err != nil {
		f.t.Fatalf("CreateCatalogTrack failed: %v", err)
	}
	f.provider.SetSpec(tr.Location, media.StreamSpec{TotalFrames: 500, Seed: float64(tr.ID)})
	return tr.ID
}

func (f *fixture) load() {
	f.t.Helper()
	if err := f.index.Load(); err != nil {
		f.t.Fatalf("Index load failed: %v", err)
	}
}

func (f *fixture) waitEntry(id int64) {
	f.t.Helper()
	waitCond(f.t, fmt.Sprintf("entry %d", id), func() bool {
		st := f.engine.Status()
		return st.Entry != nil && st.Entry.ID == id
	})
}

func (f *fixture) queueIDs() []int64 {
	entries := f.engine.Queue()
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func waitCond(t *testing.T, desc string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", desc)
}
