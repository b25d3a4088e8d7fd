package httpapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/cesargomez89/hummingbird/internal/app"
	"github.com/cesargomez89/hummingbird/internal/device"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/library"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/media"
	"github.com/cesargomez89/hummingbird/internal/playback"
	"github.com/cesargomez89/hummingbird/internal/store"
	"github.com/cesargomez89/hummingbird/internal/tags"
	"github.com/go-chi/chi/v5"
)

// fixture runs the full API against a real store and engine, with the
// mock provider and manual output standing in for files and hardware.
type fixture struct {
	t        *testing.T
	db       *store.DB
	index    *library.Index
	bus      *events.Bus
	provider *media.MockProvider
	output   *device.ManualOutput
	engine   *playback.Engine
	enricher *tags.Enricher
	srv      *httptest.Server
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
	f.enricher = tags.NewEnricher(f.bus, logger.Default())

	queue := app.NewQueueService(f.index, db, f.engine, logger.Default())
	exporter := app.NewPlaylistExporter(db, logger.Default())
	handler := NewHandler(f.engine, f.index, db, queue, exporter, f.enricher, f.bus, logger.Default())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	f.srv = httptest.NewServer(r)

	t.Cleanup(func() {
		f.srv.Close()
		f.engine.Close()
		f.provider.CloseAll()
		f.bus.Close()
		if err := db.Close(); err != nil {
			t.Logf("db.Close error: %v", err)
		}
	})
	return f
}

// request sends body as JSON and returns the response with its bytes
// read out.
func (f *fixture) request(method, path string, body interface{}) (*http.Response, []byte) {
	f.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("Failed to marshal request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+"/api/v1"+path, rd)
	if err != nil {
		f.t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.srv.Client().Do(req)
	if err != nil {
		f.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		f.t.Fatalf("%s %s: failed to read body: %v", method, path, err)
	}
	return resp, data
}

// do asserts the status code and decodes the response into out when
// it is non-nil.
func (f *fixture) do(method, path string, body interface{}, wantStatus int, out interface{}) {
	f.t.Helper()

	resp, data := f.request(method, path, body)
	if resp.StatusCode != wantStatus {
		f.t.Fatalf("%s %s: expected status %d, got %d (%s)", method, path, wantStatus, resp.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			f.t.Fatalf("%s %s: failed to decode response: %v (%s)", method, path, err, data)
		}
	}
}

func i64(v int64) *int64 { return &v }

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

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
