package app

import (
	"errors"
	"testing"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

func TestQueueService_PlayAll(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	t1 := f.mustTrack("one", &album, 1)
	t2 := f.mustTrack("two", &album, 2)
	t3 := f.mustTrack("three", &album, 3)
	f.load()

	if err := f.service.PlayAll(); err != nil {
		t.Fatalf("PlayAll failed: %v", err)
	}
	f.waitEntry(t1)

	got := f.queueIDs()
	want := []int64{t1, t2, t3}
	if len(got) != len(want) {
		t.Fatalf("Expected queue %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected queue %v, got %v", want, got)
		}
	}
}

func TestQueueService_PlayAllEmptyLibrary(t *testing.T) {
	f := newFixture(t)
	f.load()

	if err := f.service.PlayAll(); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("Expected ErrEmptyQueue, got %v", err)
	}
}

func TestQueueService_PlayEntry(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	f.mustTrack("one", &album, 1)
	t2 := f.mustTrack("two", &album, 2)
	t3 := f.mustTrack("three", &album, 3)
	f.load()

	if err := f.service.PlayEntry(t2); err != nil {
		t.Fatalf("PlayEntry failed: %v", err)
	}
	f.waitEntry(t2)

	// The whole library becomes the queue, so next reaches the picked
	// track's neighbor.
	if got := len(f.queueIDs()); got != 3 {
		t.Fatalf("Expected 3 queued entries, got %d", got)
	}
	if got := f.engine.Status().QueueIndex; got != 1 {
		t.Errorf("Expected queue position 1, got %d", got)
	}
	if err := f.engine.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	f.waitEntry(t3)

	if err := f.service.PlayEntry(9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown track, got %v", err)
	}
}

func TestQueueService_QueueEntry(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	t1 := f.mustTrack("one", &album, 1)
	f.load()

	// A track created after the snapshot still queues via the store.
	t2 := f.mustTrack("two", &album, 2)

	if err := f.service.PlayAll(); err != nil {
		t.Fatalf("PlayAll failed: %v", err)
	}
	f.waitEntry(t1)

	if err := f.service.QueueEntry(t1); err != nil {
		t.Fatalf("QueueEntry failed: %v", err)
	}
	if err := f.service.QueueEntry(t2); err != nil {
		t.Fatalf("QueueEntry store fallback failed: %v", err)
	}

	got := f.queueIDs()
	if len(got) != 3 || got[1] != t1 || got[2] != t2 {
		t.Errorf("Expected queue [%d %d %d], got %v", t1, t1, t2, got)
	}

	if err := f.service.QueueEntry(9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown track, got %v", err)
	}
}

func TestQueueService_QueueEntryAt(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	t1 := f.mustTrack("one", &album, 1)
	t2 := f.mustTrack("two", &album, 2)
	t3 := f.mustTrack("three", &album, 3)
	f.load()

	if err := f.service.PlayAll(); err != nil {
		t.Fatalf("PlayAll failed: %v", err)
	}
	f.waitEntry(t1)

	if err := f.service.QueueEntryAt(t3, 1); err != nil {
		t.Fatalf("QueueEntryAt failed: %v", err)
	}

	got := f.queueIDs()
	want := []int64{t1, t3, t2, t3}
	if len(got) != len(want) {
		t.Fatalf("Expected queue %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected queue %v, got %v", want, got)
		}
	}

	if err := f.service.QueueEntryAt(9999, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown track, got %v", err)
	}
}

func TestQueueService_ReplaceTracks(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	t1 := f.mustTrack("one", &album, 1)
	f.mustTrack("two", &album, 2)
	t3 := f.mustTrack("three", &album, 3)
	f.load()

	if err := f.service.ReplaceTracks([]int64{t3, t1}); err != nil {
		t.Fatalf("ReplaceTracks failed: %v", err)
	}
	f.waitEntry(t3)

	got := f.queueIDs()
	if len(got) != 2 || got[0] != t3 || got[1] != t1 {
		t.Errorf("Expected queue [%d %d], got %v", t3, t1, got)
	}

	if err := f.service.ReplaceTracks(nil); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("Expected ErrEmptyQueue for empty id list, got %v", err)
	}
	if err := f.service.ReplaceTracks([]int64{t1, 9999}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown track, got %v", err)
	}
}

func TestQueueService_PlayAlbum(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	first := f.mustAlbum("First", &artist)
	second := f.mustAlbum("Second", &artist)
	empty := f.mustAlbum("Empty", &artist)
	a1 := f.mustTrack("a1", &first, 1)
	a2 := f.mustTrack("a2", &first, 2)
	b1 := f.mustTrack("b1", &second, 1)
	f.load()

	if err := f.service.PlayAlbum(first); err != nil {
		t.Fatalf("PlayAlbum failed: %v", err)
	}
	f.waitEntry(a1)
	got := f.queueIDs()
	if len(got) != 2 || got[0] != a1 || got[1] != a2 {
		t.Fatalf("Expected album queue [%d %d], got %v", a1, a2, got)
	}

	if err := f.service.QueueAlbum(second); err != nil {
		t.Fatalf("QueueAlbum failed: %v", err)
	}
	got = f.queueIDs()
	if len(got) != 3 || got[2] != b1 {
		t.Errorf("Expected appended album track %d, got %v", b1, got)
	}

	if err := f.service.PlayAlbum(empty); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("Expected ErrEmptyQueue for a trackless album, got %v", err)
	}
	if err := f.service.PlayAlbum(9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing album, got %v", err)
	}
	if err := f.service.QueueAlbum(9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing album, got %v", err)
	}
}

func TestQueueService_PlayPlaylist(t *testing.T) {
	f := newFixture(t)

	artist := f.mustArtist("Artist")
	album := f.mustAlbum("Album", &artist)
	t1 := f.mustTrack("one", &album, 1)
	f.mustTrack("two", &album, 2)
	t3 := f.mustTrack("three", &album, 3)
	f.load()

	pl, err := f.db.CreatePlaylist("mix")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	// Stored order, not catalog order.
	for _, id := range []int64{t3, t1} {
		if err := f.db.AddPlaylistEntry(pl.ID, id); err != nil {
			t.Fatalf("AddPlaylistEntry failed: %v", err)
		}
	}

	if err := f.service.PlayPlaylist(pl.ID); err != nil {
		t.Fatalf("PlayPlaylist failed: %v", err)
	}
	f.waitEntry(t3)
	got := f.queueIDs()
	if len(got) != 2 || got[0] != t3 || got[1] != t1 {
		t.Fatalf("Expected playlist order [%d %d], got %v", t3, t1, got)
	}

	if err := f.service.QueuePlaylist(pl.ID); err != nil {
		t.Fatalf("QueuePlaylist failed: %v", err)
	}
	if got := len(f.queueIDs()); got != 4 {
		t.Errorf("Expected 4 entries after append, got %d", got)
	}

	emptyPl, err := f.db.CreatePlaylist("empty")
	if err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := f.service.PlayPlaylist(emptyPl.ID); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("Expected ErrEmptyQueue for an empty playlist, got %v", err)
	}
	if err := f.service.PlayPlaylist(9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing playlist, got %v", err)
	}
}
