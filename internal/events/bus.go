package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cesargomez89/hummingbird/internal/constants"
)

// stickyOrder lists the kinds replayed to new subscribers, in replay
// order. Stalled and Resumed are edges, not state, so they are absent.
var stickyOrder = []Kind{
	KindStateChanged,
	KindTrackChanged,
	KindDurationChanged,
	KindPositionChanged,
	KindQueueUpdated,
	KindQueuePositionChanged,
	KindShuffleToggled,
	KindRepeatChanged,
	KindVolumeChanged,
	KindMetadataUpdated,
	KindAlbumArtUpdated,
	KindLibraryUpdated,
}

var sticky = func() map[Kind]bool {
	m := make(map[Kind]bool, len(stickyOrder))
	for _, k := range stickyOrder {
		m[k] = true
	}
	return m
}()

// Bus fans events out to subscribers without ever blocking the
// publisher: when a subscriber's buffer is full its oldest pending event
// is dropped to make room, so fast-repeating kinds coalesce for slow
// consumers. New subscribers first receive the latest retained event of
// each sticky kind, then the live stream.
type Bus struct {
	mu       sync.Mutex
	subs     map[uuid.UUID]chan Event
	retained map[Kind]Event
}

func NewBus() *Bus {
	return &Bus{
		subs:     make(map[uuid.UUID]chan Event),
		retained: make(map[Kind]Event),
	}
}

// Subscribe registers a subscriber with the given buffer size (the
// default when n <= 0) and returns its id and receive channel.
func (b *Bus) Subscribe(n int) (uuid.UUID, <-chan Event) {
	if n <= 0 {
		n = constants.EventBufferSize
	}
	id := uuid.New()
	ch := make(chan Event, n)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, k := range stickyOrder {
		if e, ok := b.retained[k]; ok {
			deliver(ch, e)
		}
	}
	b.subs[id] = ch

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers an event to every subscriber. It never blocks.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sticky[e.Kind] {
		b.retained[e.Kind] = e
	}
	for _, ch := range b.subs {
		deliver(ch, e)
	}
}

// Close drops all subscribers.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// deliver is a non-blocking send: on a full buffer it drops the oldest
// pending event and retries once.
func deliver(ch chan Event, e Event) {
	select {
	case ch <- e:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- e:
	default:
	}
}
