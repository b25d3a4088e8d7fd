package dto

import (
	"strings"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// PlayRequest optionally picks a track; without one the engine resumes
// or starts the current queue.
type PlayRequest struct {
	TrackID *int64 `json:"track_id"`
}

func (r *PlayRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.TrackID != nil && *r.TrackID <= 0 {
		errs = append(errs, ValidationError{Field: "track_id", Message: "must be positive"})
	}
	return errs
}

type SeekRequest struct {
	PositionMs *int64 `json:"position_ms"`
}

func (r *SeekRequest) Validate() []ValidationError {
	return validatePositionMs(r.PositionMs)
}

type VolumeRequest struct {
	Level *float64 `json:"level"`
}

func (r *VolumeRequest) Validate() []ValidationError {
	return validateLevel(r.Level)
}

type RepeatRequest struct {
	Mode string `json:"mode"`
}

func (r *RepeatRequest) Validate() []ValidationError {
	return validateRepeatMode(r.Mode)
}

// DomainMode converts the validated wire string.
func (r *RepeatRequest) DomainMode() domain.RepeatMode {
	return domain.RepeatMode(r.Mode)
}

type ViewRequest struct {
	View string `json:"view"`
}

// QueueAddRequest appends a track, or inserts it when a position is
// given.
type QueueAddRequest struct {
	TrackID  *int64 `json:"track_id"`
	Position *int   `json:"position"`
}

func (r *QueueAddRequest) Validate() []ValidationError {
	errs := validateTrackID(r.TrackID)
	if r.Position != nil && *r.Position < 0 {
		errs = append(errs, ValidationError{Field: "position", Message: "must not be negative"})
	}
	return errs
}

type QueueReplaceRequest struct {
	TrackIDs []int64 `json:"track_ids"`
}

func (r *QueueReplaceRequest) Validate() []ValidationError {
	var errs []ValidationError
	if len(r.TrackIDs) == 0 {
		errs = append(errs, ValidationError{Field: "track_ids", Message: "is required"})
		return errs
	}
	for _, id := range r.TrackIDs {
		if id <= 0 {
			errs = append(errs, ValidationError{Field: "track_ids", Message: "must all be positive"})
			break
		}
	}
	return errs
}

// QueueAlbumRequest appends an album, or replaces the queue with it and
// starts playing when play is set.
type QueueAlbumRequest struct {
	AlbumID *int64 `json:"album_id"`
	Play    bool   `json:"play"`
}

func (r *QueueAlbumRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.AlbumID == nil {
		errs = append(errs, ValidationError{Field: "album_id", Message: "is required"})
	} else if *r.AlbumID <= 0 {
		errs = append(errs, ValidationError{Field: "album_id", Message: "must be positive"})
	}
	return errs
}

// QueueJumpRequest starts playback at a queue index. Unshuffled
// addresses the index in the original list order, which is what a
// client rendering that list wants while shuffle is on.
type QueueJumpRequest struct {
	Index      *int `json:"index"`
	Unshuffled bool `json:"unshuffled"`
}

func (r *QueueJumpRequest) Validate() []ValidationError {
	return validateIndex("index", r.Index)
}

type QueueMoveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (r *QueueMoveRequest) Validate() []ValidationError {
	errs := validateIndex("from", r.From)
	errs = append(errs, validateIndex("to", r.To)...)
	return errs
}

type PlaylistCreateRequest struct {
	Name string `json:"name"`
}

func (r *PlaylistCreateRequest) Validate() []ValidationError {
	return validatePlaylistName(r.Name)
}

// TrimmedName returns the name with surrounding whitespace removed,
// which is the form that gets stored.
func (r *PlaylistCreateRequest) TrimmedName() string {
	return strings.TrimSpace(r.Name)
}

type PlaylistRenameRequest struct {
	Name string `json:"name"`
}

func (r *PlaylistRenameRequest) Validate() []ValidationError {
	return validatePlaylistName(r.Name)
}

func (r *PlaylistRenameRequest) TrimmedName() string {
	return strings.TrimSpace(r.Name)
}

type PlaylistTrackRequest struct {
	TrackID *int64 `json:"track_id"`
}

func (r *PlaylistTrackRequest) Validate() []ValidationError {
	return validateTrackID(r.TrackID)
}
