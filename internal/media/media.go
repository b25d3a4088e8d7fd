// Package media opens catalog locations as decoded audio streams. All
// streams deliver stereo frames at the configured output rate, so any
// two of them can be spliced back to back.
package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Stream is one decoded track.
type Stream interface {
	// Stream fills samples with up to len(samples) frames and reports
	// how many were written and whether more remain.
	Stream(samples [][2]float64) (n int, ok bool)
	// Err reports the decode failure after Stream has returned ok=false,
	// nil on a clean end of stream.
	Err() error
	// SeekTo positions the stream. It is meant for freshly opened
	// streams, before any frames have been pulled.
	SeekTo(d time.Duration) error
	// Duration reports the total track length, zero when unknown.
	Duration() time.Duration
	Close() error
}

// Provider opens locations it recognizes.
type Provider interface {
	Open(location string) (Stream, error)
	Supports(location string) bool
}

func normalizeExt(location string) string {
	return strings.ToLower(filepath.Ext(location))
}

func unsupportedErr(location string) error {
	ext := normalizeExt(location)
	if ext == "" {
		return fmt.Errorf("no file extension")
	}
	return fmt.Errorf("unsupported format %q", ext)
}
