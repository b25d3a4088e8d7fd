package domain

import (
	"time"
)

// PlaybackState is the engine's lifecycle state.
type PlaybackState string

const (
	StateIdle     PlaybackState = "idle"
	StateLoading  PlaybackState = "loading"
	StatePlaying  PlaybackState = "playing"
	StatePaused   PlaybackState = "paused"
	StateDraining PlaybackState = "draining"
	StateEnded    PlaybackState = "ended"
	StateFailed   PlaybackState = "failed"
)

// RepeatMode controls what happens when the queue runs out.
type RepeatMode string

const (
	RepeatOff   RepeatMode = "off"
	RepeatTrack RepeatMode = "track"
	RepeatQueue RepeatMode = "queue"
)

// ViewMode selects the library ordering: ViewModeArtist orders by
// artist, album, disc, track; ViewModeAlbum skips the artist level
// entirely and orders by album, disc, track.
type ViewMode string

const (
	ViewModeArtist ViewMode = "artist"
	ViewModeAlbum  ViewMode = "album"
)

// AlbumSort selects one of the canned album listing orders.
type AlbumSort string

const (
	AlbumSortTitleAsc   AlbumSort = "title_asc"
	AlbumSortTitleDesc  AlbumSort = "title_desc"
	AlbumSortArtistAsc  AlbumSort = "artist_asc"
	AlbumSortArtistDesc AlbumSort = "artist_desc"
)

// LibraryEntry is one playable catalog row with its relations resolved.
// The *Key fields are the case-folded ordering keys as projected by the
// catalog query; absent relations project as empty strings so they sort
// ahead of named ones.
type LibraryEntry struct {
	ID           int64    `json:"id" db:"id"`
	Title        string   `json:"title" db:"title"`
	Location     string   `json:"location" db:"location"`
	Artist       string   `json:"artist" db:"artist"`
	ArtistKey    string   `json:"-" db:"artist_key"`
	Album        string   `json:"album" db:"album"`
	AlbumKey     string   `json:"-" db:"album_key"`
	DiscNumber   *int64   `json:"disc_number,omitempty" db:"disc_number"`
	TrackNumber  *int64   `json:"track_number,omitempty" db:"track_number"`
	DurationSecs *float64 `json:"duration_secs,omitempty" db:"duration_secs"`
}

// Duration returns the cataloged duration, or zero when unknown.
func (e LibraryEntry) Duration() time.Duration {
	if e.DurationSecs == nil {
		return 0
	}
	return time.Duration(*e.DurationSecs * float64(time.Second))
}

// QueueEntry is a LibraryEntry placed in the play queue. QueueID is
// unique per placement so the same track can be queued twice.
type QueueEntry struct {
	QueueID string `json:"queue_id"`
	LibraryEntry
}

// Album is one row of the album listing.
type Album struct {
	ID         int64  `json:"id" db:"id"`
	Title      string `json:"title" db:"title"`
	Artist     string `json:"artist" db:"artist"`
	TrackCount int    `json:"track_count" db:"track_count"`
}

// Playlist is a stored, user-ordered track list.
type Playlist struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	TrackCount int       `json:"track_count" db:"track_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Metadata holds the embedded tags of a media file.
type Metadata struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Year   string `json:"year,omitempty"`
}

// Artwork is an embedded picture extracted from a media file.
type Artwork struct {
	MIME string
	Data []byte
}

// Status is a point-in-time snapshot of the playback engine.
type Status struct {
	State       PlaybackState `json:"state"`
	Entry       *QueueEntry   `json:"entry,omitempty"`
	QueueIndex  int           `json:"queue_index"`
	QueueLength int           `json:"queue_length"`
	Position    time.Duration `json:"-"`
	Duration    time.Duration `json:"-"`
	Volume      float64       `json:"volume"`
	Shuffle     bool          `json:"shuffle"`
	Repeat      RepeatMode    `json:"repeat"`
	Stalled     bool          `json:"stalled"`
}
