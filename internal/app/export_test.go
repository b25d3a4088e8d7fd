package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/logger"
)

func f64(v float64) *float64 { return &v }

func TestWriteM3U(t *testing.T) {
	entries := []domain.LibraryEntry{
		{Title: "Golden Hour", Artist: "The Breakers", Location: "/music/golden.flac", DurationSecs: f64(184.6)},
		{Title: "Loose", Location: "/music/loose.mp3", DurationSecs: f64(92)},
		{Title: "Untimed", Artist: "Nobody", Location: "/music/untimed.flac"},
	}

	var sb strings.Builder
	if err := WriteM3U(&sb, entries); err != nil {
		t.Fatalf("WriteM3U failed: %v", err)
	}

	want := "#EXTM3U\n" +
		"#EXTINF:185,The Breakers - Golden Hour\n/music/golden.flac\n" +
		"#EXTINF:92,Loose\n/music/loose.mp3\n" +
		"#EXTINF:-1,Nobody - Untimed\n/music/untimed.flac\n"
	if got := sb.String(); got != want {
		t.Errorf("Unexpected document.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestWriteM3U_Empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteM3U(&sb, nil); err != nil {
		t.Fatalf("WriteM3U failed: %v", err)
	}
	if got := sb.String(); got != "#EXTM3U\n" {
		t.Errorf("Expected bare header, got %q", got)
	}
}

func TestPlaylistExporter_Export(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	t1 := f.mustTrack("one", &album, 1)
	t2 := f.mustTrack("two", &album, 2)

	pl, err := f.db.CreatePlaylist("road trip")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	for _, id := range []int64{t2, t1} {
		if err := f.db.AddPlaylistEntry(pl.ID, id); err != nil {
			t.Fatalf("AddPlaylistEntry failed: %v", err)
		}
	}

	x := NewPlaylistExporter(f.db, logger.Default())

	var sb strings.Builder
	got, err := x.Export(&sb, pl.ID)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got.Name != "road trip" {
		t.Errorf("Expected playlist name back, got %q", got.Name)
	}

	doc := sb.String()
	if !strings.HasPrefix(doc, "#EXTM3U\n") {
		t.Errorf("Expected extended M3U header, got %q", doc)
	}
	// Stored order: two before one.
	iTwo := strings.Index(doc, "/music/two.flac")
	iOne := strings.Index(doc, "/music/one.flac")
	if iTwo < 0 || iOne < 0 || iTwo > iOne {
		t.Errorf("Expected stored order in document:\n%s", doc)
	}
	if !strings.Contains(doc, "Artist - two") {
		t.Errorf("Expected artist - title labels in document:\n%s", doc)
	}

	if _, err := x.Export(&sb, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing playlist, got %v", err)
	}
}
