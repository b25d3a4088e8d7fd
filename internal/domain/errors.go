package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSeekOutOfRange is returned when a seek target is negative or past
	// the end of the current track. The request has no side effects.
	ErrSeekOutOfRange = errors.New("seek position out of range")

	// ErrEmptyQueue is returned when a selection resolves to zero tracks.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrNotFound is returned by store lookups for missing rows.
	ErrNotFound = errors.New("not found")
)

// CatalogError reports a query or connection failure from the catalog
// store. Consumers keep serving their previous snapshot when they get one.
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string { return fmt.Sprintf("catalog %s: %v", e.Op, e.Err) }
func (e *CatalogError) Unwrap() error { return e.Err }

// DecodeError reports a failure to open or decode a single track:
// unsupported format, unreadable file, or a corrupt stream. It fails that
// track only; playback continues with the next queue entry.
type DecodeError struct {
	Location string
	Err      error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Location, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// DeviceError reports an output device failure. It is fatal to the
// playback session and is not retried automatically.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string { return fmt.Sprintf("audio device: %v", e.Err) }
func (e *DeviceError) Unwrap() error { return e.Err }
