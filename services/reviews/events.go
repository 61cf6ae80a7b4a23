package reviews

import (
	"sync"

	"mediashelf/models"
)

// Event types published by the service.
const (
	EventReviewCreated = "review-created"
	EventReviewDeleted = "review-deleted"
)

// Event describes a change to a user's reviews. Deletion events let open
// review lists refresh without polling.
type Event struct {
	Type   string        `json:"type"`
	UserID string        `json:"userId"`
	Review models.Review `json:"review"`
}

// broadcaster fans events out to subscribers. Slow subscribers drop events
// rather than blocking writes.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan Event]struct{})}
}

func (b *broadcaster) subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *broadcaster) unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	b.mu.Unlock()
}
