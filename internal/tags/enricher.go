package tags

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/logger"
)

// Enricher reads file tags for the active track off the playback control
// path. It follows track changes on the bus, publishes MetadataUpdated
// and AlbumArtUpdated, and caches the current artwork so HTTP handlers
// can serve it without touching the file again.
type Enricher struct {
	bus *events.Bus
	log *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	subID  uuid.UUID

	mu       sync.RWMutex
	metadata domain.Metadata
	art      *domain.Artwork
}

func NewEnricher(bus *events.Bus, log *logger.Logger) *Enricher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Enricher{
		bus:    bus,
		log:    log.WithComponent("tags"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (e *Enricher) Start() {
	id, ch := e.bus.Subscribe(constants.EventBufferSize)
	e.subID = id
	e.wg.Add(1)
	go e.run(ch)
}

func (e *Enricher) Stop() {
	e.cancel()
	e.bus.Unsubscribe(e.subID)
	e.wg.Wait()
}

// Current returns the last published metadata of the active track.
func (e *Enricher) Current() domain.Metadata {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metadata
}

// Artwork returns the active track's embedded art, if any.
func (e *Enricher) Artwork() (domain.Artwork, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.art == nil {
		return domain.Artwork{}, false
	}
	return *e.art, true
}

func (e *Enricher) run(ch <-chan events.Event) {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			tc, isTrack := trackChange(ev)
			if !isTrack {
				continue
			}
			// Coalesce bursts: while a read was pending only the
			// newest track still matters.
		drain:
			for {
				select {
				case next, ok := <-ch:
					if !ok {
						break drain
					}
					if p, isNext := trackChange(next); isNext {
						tc = p
					}
				default:
					break drain
				}
			}
			e.process(tc)
		}
	}
}

func trackChange(ev events.Event) (events.TrackChange, bool) {
	if ev.Kind != events.KindTrackChanged {
		return events.TrackChange{}, false
	}
	tc, ok := ev.Payload.(events.TrackChange)
	return tc, ok
}

func (e *Enricher) process(tc events.TrackChange) {
	if tc.Entry == nil {
		e.mu.Lock()
		e.metadata = domain.Metadata{}
		e.art = nil
		e.mu.Unlock()
		// Keep the retained snapshot consistent for late subscribers.
		e.bus.Publish(events.MetadataUpdated(domain.Metadata{}))
		e.bus.Publish(events.AlbumArtUpdated("", 0))
		return
	}

	entry := tc.Entry.LibraryEntry
	m, art, err := Read(entry.Location)
	if err != nil {
		e.log.Warn("Tag read failed", "location", entry.Location, "error", err)
	}
	// The catalog row fills whatever the file tags leave blank.
	if m.Title == "" {
		m.Title = entry.Title
	}
	if m.Artist == "" {
		m.Artist = entry.Artist
	}
	if m.Album == "" {
		m.Album = entry.Album
	}

	e.mu.Lock()
	e.metadata = m
	e.art = art
	e.mu.Unlock()

	e.bus.Publish(events.MetadataUpdated(m))
	if art != nil {
		e.bus.Publish(events.AlbumArtUpdated(art.MIME, len(art.Data)))
	} else {
		e.bus.Publish(events.AlbumArtUpdated("", 0))
	}
}
