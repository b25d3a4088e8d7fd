// Package app wires the library, store and playback engine into the
// operations clients actually invoke.
package app

import (
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/library"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/playback"
	"github.com/cesargomez89/hummingbird/internal/store"
)

// QueueService turns library selections into engine queues. Selections
// resolve through the index in its current view order, or through the
// store for albums and playlists.
type QueueService struct {
	Index  *library.Index
	Repo   *store.DB
	Engine *playback.Engine
	Logger *logger.Logger
}

func NewQueueService(index *library.Index, repo *store.DB, engine *playback.Engine, log *logger.Logger) *QueueService {
	return &QueueService{
		Index:  index,
		Repo:   repo,
		Engine: engine,
		Logger: log.WithComponent("queue"),
	}
}

// PlayAll replaces the queue with the whole library in view order and
// starts at the first entry.
func (s *QueueService) PlayAll() error {
	entries := s.Index.Entries()
	if len(entries) == 0 {
		return domain.ErrEmptyQueue
	}
	s.Logger.Info("Playing library", "entries", len(entries), "view", s.Index.View())
	return s.Engine.ReplaceQueue(entries)
}

// PlayEntry replaces the queue with the library in view order and
// starts at the picked track, so next and previous walk its neighbors.
func (s *QueueService) PlayEntry(trackID int64) error {
	i, ok := s.Index.IndexOf(trackID)
	if !ok {
		return domain.ErrNotFound
	}
	entries := s.Index.Entries()
	s.Logger.Info("Playing library entry", "track_id", trackID, "index", i)
	return s.Engine.ReplaceQueueAt(entries, i)
}

// QueueEntry appends one track to the end of the queue.
func (s *QueueService) QueueEntry(trackID int64) error {
	entry, err := s.resolveEntry(trackID)
	if err != nil {
		return err
	}
	s.Logger.Info("Queued entry", "track_id", trackID, "title", entry.Title)
	return s.Engine.Enqueue([]domain.LibraryEntry{entry})
}

// QueueEntryAt inserts one track at queue position pos. Past-the-end
// positions append.
func (s *QueueService) QueueEntryAt(trackID int64, pos int) error {
	entry, err := s.resolveEntry(trackID)
	if err != nil {
		return err
	}
	s.Logger.Info("Queued entry", "track_id", trackID, "title", entry.Title, "position", pos)
	return s.Engine.EnqueueAt(pos, []domain.LibraryEntry{entry})
}

// ReplaceTracks swaps the queue for the given tracks in the given order
// and starts at the first one. Any unknown id fails the whole call.
func (s *QueueService) ReplaceTracks(trackIDs []int64) error {
	if len(trackIDs) == 0 {
		return domain.ErrEmptyQueue
	}
	entries := make([]domain.LibraryEntry, 0, len(trackIDs))
	for _, id := range trackIDs {
		entry, err := s.resolveEntry(id)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	s.Logger.Info("Replacing queue", "entries", len(entries))
	return s.Engine.ReplaceQueue(entries)
}

// PlayAlbum replaces the queue with the album's tracks in disc/track
// order and starts at the first one.
func (s *QueueService) PlayAlbum(albumID int64) error {
	entries, err := s.albumEntries(albumID)
	if err != nil {
		return err
	}
	s.Logger.Info("Playing album", "album_id", albumID, "entries", len(entries))
	return s.Engine.ReplaceQueue(entries)
}

// QueueAlbum appends the album's tracks to the end of the queue.
func (s *QueueService) QueueAlbum(albumID int64) error {
	entries, err := s.albumEntries(albumID)
	if err != nil {
		return err
	}
	s.Logger.Info("Queued album", "album_id", albumID, "entries", len(entries))
	return s.Engine.Enqueue(entries)
}

// PlayPlaylist replaces the queue with the playlist in stored order and
// starts at the first entry.
func (s *QueueService) PlayPlaylist(playlistID int64) error {
	entries, err := s.playlistEntries(playlistID)
	if err != nil {
		return err
	}
	s.Logger.Info("Playing playlist", "playlist_id", playlistID, "entries", len(entries))
	return s.Engine.ReplaceQueue(entries)
}

// QueuePlaylist appends the playlist's tracks to the end of the queue.
func (s *QueueService) QueuePlaylist(playlistID int64) error {
	entries, err := s.playlistEntries(playlistID)
	if err != nil {
		return err
	}
	s.Logger.Info("Queued playlist", "playlist_id", playlistID, "entries", len(entries))
	return s.Engine.Enqueue(entries)
}

// resolveEntry looks a track up in the index snapshot, falling back to
// a direct catalog read for tracks added since the last load.
func (s *QueueService) resolveEntry(trackID int64) (domain.LibraryEntry, error) {
	if entry, ok := s.Index.EntryByID(trackID); ok {
		return entry, nil
	}
	e, err := s.Repo.GetEntry(trackID)
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	return *e, nil
}

func (s *QueueService) albumEntries(albumID int64) ([]domain.LibraryEntry, error) {
	if _, err := s.Repo.GetAlbum(albumID); err != nil {
		return nil, err
	}
	entries, err := s.Repo.ListAlbumEntries(albumID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrEmptyQueue
	}
	return entries, nil
}

func (s *QueueService) playlistEntries(playlistID int64) ([]domain.LibraryEntry, error) {
	if _, err := s.Repo.GetPlaylist(playlistID); err != nil {
		return nil, err
	}
	entries, err := s.Repo.PlaylistEntries(playlistID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrEmptyQueue
	}
	return entries, nil
}
