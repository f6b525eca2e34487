package session

import (
	"sync"

	"github.com/platewise/platewise/models"
)

type EventKind string

const (
	SignedIn  EventKind = "SIGNED_IN"
	SignedOut EventKind = "SIGNED_OUT"
)

// Event is an auth state change. Session identifies whose state changed;
// Metadata carries the redeemed link's metadata for SignedIn events.
type Event struct {
	Kind     EventKind
	Session  *models.Session
	Metadata map[string]string
}

// Bus fans auth-change events out to subscribers. Subscribe returns a
// disposer that must be called on teardown so callbacks are not leaked.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	// invoked outside the lock so a subscriber may unsubscribe itself
	for _, fn := range fns {
		fn(e)
	}
}
