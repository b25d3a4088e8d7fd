package playback

import (
	"math/rand"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// queue holds the play order. pos indexes the current entry, -1 when
// nothing has played yet. Not safe for concurrent use; the engine's
// control loop owns it.
type queue struct {
	entries  []domain.QueueEntry
	original []domain.QueueEntry // unshuffled order while shuffle is on
	pos      int
	shuffle  bool
	repeat   domain.RepeatMode
}

func newQueue() *queue {
	return &queue{pos: -1, repeat: domain.RepeatOff}
}

func (q *queue) Len() int { return len(q.entries) }

func (q *queue) Pos() int { return q.pos }

func (q *queue) Current() (domain.QueueEntry, bool) {
	if q.pos < 0 || q.pos >= len(q.entries) {
		return domain.QueueEntry{}, false
	}
	return q.entries[q.pos], true
}

func (q *queue) At(i int) (domain.QueueEntry, bool) {
	if i < 0 || i >= len(q.entries) {
		return domain.QueueEntry{}, false
	}
	return q.entries[i], true
}

func (q *queue) Entries() []domain.QueueEntry {
	out := make([]domain.QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Next moves to the entry that should play after the current one and
// returns it. With repeat track the current entry repeats without
// moving. Past the final entry, repeat queue wraps to the first,
// reshuffling when shuffle is on.
func (q *queue) Next(auto bool) (domain.QueueEntry, bool) {
	if len(q.entries) == 0 {
		return domain.QueueEntry{}, false
	}
	if q.repeat == domain.RepeatTrack {
		return q.Current()
	}
	if q.pos+1 < len(q.entries) {
		q.pos++
		return q.entries[q.pos], true
	}
	if q.repeat == domain.RepeatQueue {
		if q.shuffle {
			q.shuffleFrom(0)
		}
		q.pos = 0
		return q.entries[0], true
	}
	return domain.QueueEntry{}, false
}

// PeekNext reports what Next would return without advancing. It skips
// the repeat queue wrap while shuffle is on, because the wrap
// reshuffles and the first entry is not knowable in advance.
func (q *queue) PeekNext() (domain.QueueEntry, bool) {
	if len(q.entries) == 0 {
		return domain.QueueEntry{}, false
	}
	if q.repeat == domain.RepeatTrack {
		return q.Current()
	}
	if q.pos+1 < len(q.entries) {
		return q.entries[q.pos+1], true
	}
	if q.repeat == domain.RepeatQueue && !q.shuffle {
		return q.entries[0], true
	}
	return domain.QueueEntry{}, false
}

// EntryAfter returns the entry following the one with the given queue
// id. Prefetch uses it to retry the following candidate after a
// failure.
func (q *queue) EntryAfter(queueID string) (domain.QueueEntry, bool) {
	for i, e := range q.entries {
		if e.QueueID == queueID {
			if i+1 < len(q.entries) {
				return q.entries[i+1], true
			}
			return domain.QueueEntry{}, false
		}
	}
	return domain.QueueEntry{}, false
}

// CommitTo moves the position onto the entry with the given queue id,
// used when a prefetched session becomes current. A missing id leaves
// the position alone.
func (q *queue) CommitTo(queueID string) {
	for i, e := range q.entries {
		if e.QueueID == queueID {
			q.pos = i
			return
		}
	}
}

func (q *queue) Previous() (domain.QueueEntry, bool) {
	if q.pos > 0 {
		q.pos--
		return q.entries[q.pos], true
	}
	return domain.QueueEntry{}, false
}

// Last moves onto the final entry, used when previous is pressed while
// nothing is playing.
func (q *queue) Last() (domain.QueueEntry, bool) {
	if len(q.entries) == 0 {
		return domain.QueueEntry{}, false
	}
	q.pos = len(q.entries) - 1
	return q.entries[q.pos], true
}

func (q *queue) Jump(i int) (domain.QueueEntry, bool) {
	if i < 0 || i >= len(q.entries) {
		return domain.QueueEntry{}, false
	}
	q.pos = i
	return q.entries[i], true
}

// JumpUnshuffled jumps by index into the unshuffled order, so a client
// showing the original list can address entries while shuffle is on.
func (q *queue) JumpUnshuffled(i int) (domain.QueueEntry, bool) {
	if !q.shuffle {
		return q.Jump(i)
	}
	if i < 0 || i >= len(q.original) {
		return domain.QueueEntry{}, false
	}
	id := q.original[i].QueueID
	for j, e := range q.entries {
		if e.QueueID == id {
			return q.Jump(j)
		}
	}
	return domain.QueueEntry{}, false
}

func (q *queue) Shuffled() bool { return q.shuffle }

// SetShuffle turns shuffle on or off. Turning it on keeps the already
// played prefix in place and shuffles everything after the current
// entry. Turning it off restores the saved order and relocates the
// position onto the entry that was playing.
func (q *queue) SetShuffle(on bool) {
	if on == q.shuffle {
		return
	}
	if on {
		q.original = make([]domain.QueueEntry, len(q.entries))
		copy(q.original, q.entries)
		q.shuffleFrom(q.pos + 1)
		q.shuffle = true
		return
	}

	cur, hadCur := q.Current()
	q.entries = q.original
	q.original = nil
	q.shuffle = false
	if hadCur {
		for i, e := range q.entries {
			if e.QueueID == cur.QueueID {
				q.pos = i
				return
			}
		}
	}
	if q.pos >= len(q.entries) {
		q.pos = len(q.entries) - 1
	}
}

func (q *queue) shuffleFrom(start int) {
	if start < 0 {
		start = 0
	}
	if start >= len(q.entries) {
		return
	}
	tail := q.entries[start:]
	rand.Shuffle(len(tail), func(i, j int) {
		tail[i], tail[j] = tail[j], tail[i]
	})
}

func (q *queue) Repeat() domain.RepeatMode { return q.repeat }

func (q *queue) SetRepeat(m domain.RepeatMode) { q.repeat = m }

func (q *queue) Append(entries ...domain.QueueEntry) {
	q.entries = append(q.entries, entries...)
	if q.shuffle {
		q.original = append(q.original, entries...)
	}
}

// InsertAt inserts entries at index i, clamped into range. The current
// position keeps pointing at the same entry. While shuffle is on the
// new entries go to the end of the saved order.
func (q *queue) InsertAt(i int, entries ...domain.QueueEntry) {
	if i < 0 {
		i = 0
	}
	if i > len(q.entries) {
		i = len(q.entries)
	}
	out := make([]domain.QueueEntry, 0, len(q.entries)+len(entries))
	out = append(out, q.entries[:i]...)
	out = append(out, entries...)
	out = append(out, q.entries[i:]...)
	q.entries = out
	if q.pos >= i {
		q.pos += len(entries)
	}
	if q.shuffle {
		q.original = append(q.original, entries...)
	}
}

// Remove deletes the entry at index i. Removing the current entry
// leaves whatever is playing untouched; the position slides back so
// the next advance lands on the entry that followed the removed one.
func (q *queue) Remove(i int) (domain.QueueEntry, bool) {
	if i < 0 || i >= len(q.entries) {
		return domain.QueueEntry{}, false
	}
	e := q.entries[i]
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	if i <= q.pos {
		q.pos--
	}
	if q.shuffle {
		for j := range q.original {
			if q.original[j].QueueID == e.QueueID {
				q.original = append(q.original[:j], q.original[j+1:]...)
				break
			}
		}
	}
	return e, true
}

// Move takes the entry at from out of the queue and reinserts it at
// index to. The position follows the current entry wherever it lands.
func (q *queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.entries) || to < 0 || to >= len(q.entries) {
		return false
	}
	if from == to {
		return true
	}

	var curID string
	if c, ok := q.Current(); ok {
		curID = c.QueueID
	}

	e := q.entries[from]
	rest := append(q.entries[:from], q.entries[from+1:]...)
	out := make([]domain.QueueEntry, 0, len(rest)+1)
	out = append(out, rest[:to]...)
	out = append(out, e)
	out = append(out, rest[to:]...)
	q.entries = out

	if curID != "" {
		for i, en := range q.entries {
			if en.QueueID == curID {
				q.pos = i
				break
			}
		}
	}
	return true
}

// Replace swaps the whole queue out. With shuffle on the new queue is
// shuffled immediately and the saved order is the list as given.
func (q *queue) Replace(entries []domain.QueueEntry) {
	q.entries = make([]domain.QueueEntry, len(entries))
	copy(q.entries, entries)
	q.pos = -1
	if q.shuffle {
		q.original = make([]domain.QueueEntry, len(entries))
		copy(q.original, entries)
		q.shuffleFrom(0)
	} else {
		q.original = nil
	}
}

func (q *queue) Clear() {
	q.entries = nil
	q.original = nil
	q.pos = -1
}
