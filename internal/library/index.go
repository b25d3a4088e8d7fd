// Package library holds the in-memory snapshot of the playable catalog.
package library

import (
	"fmt"
	"sync"

	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/logger"
)

// Catalog is the slice of the store the index reads from.
type Catalog interface {
	ListEntries(view domain.ViewMode) ([]domain.LibraryEntry, error)
}

// Index serves an immutable snapshot of the library in the deterministic
// order of its active view. Reloads swap the whole snapshot; a failed
// reload leaves the previous one serving.
type Index struct {
	catalog Catalog
	bus     *events.Bus
	log     *logger.Logger

	mu      sync.RWMutex
	view    domain.ViewMode
	entries []domain.LibraryEntry
	byID    map[int64]int
}

func NewIndex(catalog Catalog, bus *events.Bus, view domain.ViewMode, log *logger.Logger) *Index {
	return &Index{
		catalog: catalog,
		bus:     bus,
		view:    view,
		log:     log.WithComponent("library"),
		byID:    make(map[int64]int),
	}
}

// Load replaces the snapshot with a fresh catalog query for the active
// view.
func (ix *Index) Load() error {
	return ix.reload(ix.View())
}

// SetView switches the ordering variant and reloads. If the reload fails
// the previous view and snapshot both remain active.
func (ix *Index) SetView(view domain.ViewMode) error {
	if view != domain.ViewModeArtist && view != domain.ViewModeAlbum {
		return fmt.Errorf("unknown view mode: %s", view)
	}
	return ix.reload(view)
}

func (ix *Index) reload(view domain.ViewMode) error {
	entries, err := ix.catalog.ListEntries(view)
	if err != nil {
		ix.log.Error("Library reload failed, keeping previous snapshot", "error", err)
		return err
	}

	byID := make(map[int64]int, len(entries))
	for i, e := range entries {
		byID[e.ID] = i
	}

	ix.mu.Lock()
	ix.view = view
	ix.entries = entries
	ix.byID = byID
	ix.mu.Unlock()

	if ix.bus != nil {
		ix.bus.Publish(events.LibraryUpdated(view, len(entries)))
	}
	return nil
}

// Entries returns the current snapshot. Snapshots are never mutated in
// place, so callers may hold on to the slice across reloads.
func (ix *Index) Entries() []domain.LibraryEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.entries
}

func (ix *Index) EntryByID(id int64) (domain.LibraryEntry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	i, ok := ix.byID[id]
	if !ok {
		return domain.LibraryEntry{}, false
	}
	return ix.entries[i], true
}

// IndexOf returns the entry's position in the current snapshot.
func (ix *Index) IndexOf(id int64) (int, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	i, ok := ix.byID[id]
	return i, ok
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

func (ix *Index) View() domain.ViewMode {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.view
}
