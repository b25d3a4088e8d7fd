// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort             = "8080"
	DefaultDBPath           = "hummingbird.db"
	DefaultSampleRate       = 44100
	DefaultBufferDur        = 500 * time.Millisecond
	DefaultStartBufferDur   = 100 * time.Millisecond
	DefaultPrefetchDur      = 5 * time.Second
	DefaultPositionInterval = 100 * time.Millisecond
	DefaultPrevRestartAfter = 5 * time.Second
	DefaultVolume           = 1.0
	DefaultConfigFile       = "hummingbird.yaml"
)

// Audio pipeline
const (
	ChunkFrames       = 512  // frames per ring chunk
	RampFrames        = 1024 // frames over which output fades back in after silence
	ResampleQuality   = 4
	NotifyChannelSize = 16
	EventBufferSize   = 64
)

// MIME Types
const (
	MimeTypeFLAC = "audio/flac"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeWAV  = "audio/wav"
	MimeTypeOGG  = "audio/ogg"
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeM3U  = "audio/x-mpegurl"
)

// File Extensions
const (
	ExtFLAC = ".flac"
	ExtMP3  = ".mp3"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM3U  = ".m3u"
)

// Watcher
const (
	WatchDebounce = 500 * time.Millisecond
)

// Settings persistence
const (
	StateSaveDebounce = 1 * time.Second
)
