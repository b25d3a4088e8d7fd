package dto

import (
	"github.com/cesargomez89/hummingbird/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response. Fields maps
// field names to messages for validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusResponse is the engine snapshot with durations flattened to
// milliseconds for the wire.
type StatusResponse struct {
	State       string             `json:"state"`
	Entry       *domain.QueueEntry `json:"entry,omitempty"`
	QueueIndex  int                `json:"queue_index"`
	QueueLength int                `json:"queue_length"`
	PositionMs  int64              `json:"position_ms"`
	DurationMs  int64              `json:"duration_ms"`
	Volume      float64            `json:"volume"`
	Shuffle     bool               `json:"shuffle"`
	Repeat      string             `json:"repeat"`
	Stalled     bool               `json:"stalled"`
}

func NewStatusResponse(st domain.Status) StatusResponse {
	return StatusResponse{
		State:       string(st.State),
		Entry:       st.Entry,
		QueueIndex:  st.QueueIndex,
		QueueLength: st.QueueLength,
		PositionMs:  st.Position.Milliseconds(),
		DurationMs:  st.Duration.Milliseconds(),
		Volume:      st.Volume,
		Shuffle:     st.Shuffle,
		Repeat:      string(st.Repeat),
		Stalled:     st.Stalled,
	}
}

type QueueResponse struct {
	Entries []domain.QueueEntry `json:"entries"`
	Index   int                 `json:"index"`
	Length  int                 `json:"length"`
}

func NewQueueResponse(entries []domain.QueueEntry, index int) QueueResponse {
	if entries == nil {
		entries = []domain.QueueEntry{}
	}
	return QueueResponse{Entries: entries, Index: index, Length: len(entries)}
}

type LibraryResponse struct {
	View    string                `json:"view"`
	Count   int                   `json:"count"`
	Entries []domain.LibraryEntry `json:"entries"`
}

func NewLibraryResponse(view domain.ViewMode, entries []domain.LibraryEntry) LibraryResponse {
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	return LibraryResponse{View: string(view), Count: len(entries), Entries: entries}
}

// LibraryStateResponse reports the active view without the entry list,
// for view switches and reloads.
type LibraryStateResponse struct {
	View  string `json:"view"`
	Count int    `json:"count"`
}

func NewLibraryStateResponse(view domain.ViewMode, count int) LibraryStateResponse {
	return LibraryStateResponse{View: string(view), Count: count}
}

type AlbumsResponse struct {
	Sort   string         `json:"sort"`
	Albums []domain.Album `json:"albums"`
}

func NewAlbumsResponse(sort domain.AlbumSort, albums []domain.Album) AlbumsResponse {
	if albums == nil {
		albums = []domain.Album{}
	}
	return AlbumsResponse{Sort: string(sort), Albums: albums}
}

type AlbumTracksResponse struct {
	Album   domain.Album          `json:"album"`
	Entries []domain.LibraryEntry `json:"entries"`
}

func NewAlbumTracksResponse(album domain.Album, entries []domain.LibraryEntry) AlbumTracksResponse {
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	return AlbumTracksResponse{Album: album, Entries: entries}
}

type PlaylistsResponse struct {
	Playlists []domain.Playlist `json:"playlists"`
}

func NewPlaylistsResponse(playlists []domain.Playlist) PlaylistsResponse {
	if playlists == nil {
		playlists = []domain.Playlist{}
	}
	return PlaylistsResponse{Playlists: playlists}
}

type PlaylistTracksResponse struct {
	Playlist domain.Playlist       `json:"playlist"`
	Entries  []domain.LibraryEntry `json:"entries"`
}

func NewPlaylistTracksResponse(playlist domain.Playlist, entries []domain.LibraryEntry) PlaylistTracksResponse {
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	return PlaylistTracksResponse{Playlist: playlist, Entries: entries}
}
