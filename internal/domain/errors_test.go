package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCatalogError_Unwrap(t *testing.T) {
	cause := errors.New("database is locked")
	err := &CatalogError{Op: "list entries", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var catErr *CatalogError
	wrapped := fmt.Errorf("loading library: %w", err)
	if !errors.As(wrapped, &catErr) {
		t.Fatal("errors.As should find *CatalogError through a wrap")
	}
	if catErr.Op != "list entries" {
		t.Errorf("Op = %q, want %q", catErr.Op, "list entries")
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	cause := errors.New("bad frame header")
	err := &DecodeError{Location: "/music/a.flac", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var decErr *DecodeError
	if !errors.As(fmt.Errorf("open: %w", err), &decErr) {
		t.Fatal("errors.As should find *DecodeError through a wrap")
	}
	if decErr.Location != "/music/a.flac" {
		t.Errorf("Location = %q, want /music/a.flac", decErr.Location)
	}
}

func TestDeviceError_Unwrap(t *testing.T) {
	cause := errors.New("no output device")
	err := &DeviceError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestSentinels_Distinct(t *testing.T) {
	sentinels := []error{ErrSeekOutOfRange, ErrEmptyQueue, ErrNotFound}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
