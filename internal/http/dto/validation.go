package dto

import (
	"fmt"
	"math"
	"strings"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for i := range errs {
		msgs = append(msgs, errs[i].Error())
	}
	return strings.Join(msgs, "; ")
}

// ParseViewMode maps a wire string onto a library view, for both query
// parameters and request bodies.
func ParseViewMode(s string) (domain.ViewMode, []ValidationError) {
	switch domain.ViewMode(s) {
	case domain.ViewModeArtist, domain.ViewModeAlbum:
		return domain.ViewMode(s), nil
	}
	return "", []ValidationError{{Field: "view", Message: "must be 'artist' or 'album'"}}
}

// ParseAlbumSort maps a wire string onto a canned album ordering. The
// empty string selects the title ascending default.
func ParseAlbumSort(s string) (domain.AlbumSort, []ValidationError) {
	if s == "" {
		return domain.AlbumSortTitleAsc, nil
	}
	switch domain.AlbumSort(s) {
	case domain.AlbumSortTitleAsc, domain.AlbumSortTitleDesc,
		domain.AlbumSortArtistAsc, domain.AlbumSortArtistDesc:
		return domain.AlbumSort(s), nil
	}
	return "", []ValidationError{{Field: "sort", Message: "must be one of 'title_asc', 'title_desc', 'artist_asc', 'artist_desc'"}}
}

func validateTrackID(id *int64) []ValidationError {
	var errs []ValidationError
	if id == nil {
		errs = append(errs, ValidationError{Field: "track_id", Message: "is required"})
	} else if *id <= 0 {
		errs = append(errs, ValidationError{Field: "track_id", Message: "must be positive"})
	}
	return errs
}

func validatePositionMs(positionMs *int64) []ValidationError {
	var errs []ValidationError
	if positionMs == nil {
		errs = append(errs, ValidationError{Field: "position_ms", Message: "is required"})
	} else if *positionMs < 0 {
		errs = append(errs, ValidationError{Field: "position_ms", Message: "must not be negative"})
	}
	return errs
}

func validateLevel(level *float64) []ValidationError {
	var errs []ValidationError
	if level == nil {
		errs = append(errs, ValidationError{Field: "level", Message: "is required"})
	} else if math.IsNaN(*level) || *level < 0 || *level > 1 {
		errs = append(errs, ValidationError{Field: "level", Message: "must be between 0 and 1"})
	}
	return errs
}

func validateRepeatMode(mode string) []ValidationError {
	var errs []ValidationError
	switch domain.RepeatMode(mode) {
	case domain.RepeatOff, domain.RepeatTrack, domain.RepeatQueue:
	default:
		errs = append(errs, ValidationError{Field: "mode", Message: "must be 'off', 'track' or 'queue'"})
	}
	return errs
}

func validateIndex(field string, index *int) []ValidationError {
	var errs []ValidationError
	if index == nil {
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	} else if *index < 0 {
		errs = append(errs, ValidationError{Field: field, Message: "must not be negative"})
	}
	return errs
}

func validatePlaylistName(name string) []ValidationError {
	var errs []ValidationError
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "is required"})
	} else if len(trimmed) > 255 {
		errs = append(errs, ValidationError{Field: "name", Message: "must be at most 255 characters"})
	}
	return errs
}
