// Package events carries playback and library change notifications from
// the engine to any number of subscribers.
package events

import (
	"github.com/cesargomez89/hummingbird/internal/domain"
)

type Kind string

const (
	KindStateChanged         Kind = "state_changed"
	KindTrackChanged         Kind = "track_changed"
	KindPositionChanged      Kind = "position_changed"
	KindDurationChanged      Kind = "duration_changed"
	KindStalled              Kind = "stalled"
	KindResumed              Kind = "resumed"
	KindQueueUpdated         Kind = "queue_updated"
	KindQueuePositionChanged Kind = "queue_position_changed"
	KindShuffleToggled       Kind = "shuffle_toggled"
	KindRepeatChanged        Kind = "repeat_changed"
	KindVolumeChanged        Kind = "volume_changed"
	KindMetadataUpdated      Kind = "metadata_updated"
	KindAlbumArtUpdated      Kind = "album_art_updated"
	KindLibraryUpdated       Kind = "library_updated"
)

// Event is one notification. Payload is nil for edge-only kinds
// (Stalled, Resumed).
type Event struct {
	Kind    Kind        `json:"kind"`
	Payload interface{} `json:"payload,omitempty"`
}

type StateChange struct {
	State domain.PlaybackState `json:"state"`
}

type TrackChange struct {
	Entry *domain.QueueEntry `json:"entry,omitempty"`
	Index int                `json:"index"`
}

type PositionChange struct {
	PositionMs int64 `json:"position_ms"`
}

type DurationChange struct {
	DurationMs int64 `json:"duration_ms"`
}

type QueueChange struct {
	Length int `json:"length"`
}

type QueuePositionChange struct {
	Index int `json:"index"`
}

type ShuffleChange struct {
	Shuffle bool `json:"shuffle"`
}

type RepeatChange struct {
	Mode domain.RepeatMode `json:"mode"`
}

type VolumeChange struct {
	Volume float64 `json:"volume"`
}

type MetadataChange struct {
	Metadata domain.Metadata `json:"metadata"`
}

// AlbumArtChange announces that new artwork is available; the bytes are
// served separately.
type AlbumArtChange struct {
	MIME string `json:"mime"`
	Size int    `json:"size"`
}

type LibraryChange struct {
	View  domain.ViewMode `json:"view"`
	Count int             `json:"count"`
}

// Constructors for the common cases keep emission sites short.

func StateChanged(s domain.PlaybackState) Event {
	return Event{Kind: KindStateChanged, Payload: StateChange{State: s}}
}

func TrackChanged(entry *domain.QueueEntry, index int) Event {
	return Event{Kind: KindTrackChanged, Payload: TrackChange{Entry: entry, Index: index}}
}

func PositionChanged(ms int64) Event {
	return Event{Kind: KindPositionChanged, Payload: PositionChange{PositionMs: ms}}
}

func DurationChanged(ms int64) Event {
	return Event{Kind: KindDurationChanged, Payload: DurationChange{DurationMs: ms}}
}

func Stalled() Event { return Event{Kind: KindStalled} }

func Resumed() Event { return Event{Kind: KindResumed} }

func QueueUpdated(length int) Event {
	return Event{Kind: KindQueueUpdated, Payload: QueueChange{Length: length}}
}

func QueuePositionChanged(index int) Event {
	return Event{Kind: KindQueuePositionChanged, Payload: QueuePositionChange{Index: index}}
}

func ShuffleToggled(on bool) Event {
	return Event{Kind: KindShuffleToggled, Payload: ShuffleChange{Shuffle: on}}
}

func RepeatChanged(mode domain.RepeatMode) Event {
	return Event{Kind: KindRepeatChanged, Payload: RepeatChange{Mode: mode}}
}

func VolumeChanged(v float64) Event {
	return Event{Kind: KindVolumeChanged, Payload: VolumeChange{Volume: v}}
}

func MetadataUpdated(m domain.Metadata) Event {
	return Event{Kind: KindMetadataUpdated, Payload: MetadataChange{Metadata: m}}
}

func AlbumArtUpdated(mime string, size int) Event {
	return Event{Kind: KindAlbumArtUpdated, Payload: AlbumArtChange{MIME: mime, Size: size}}
}

func LibraryUpdated(view domain.ViewMode, count int) Event {
	return Event{Kind: KindLibraryUpdated, Payload: LibraryChange{View: view, Count: count}}
}
