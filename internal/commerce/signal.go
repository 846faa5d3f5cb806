package commerce

import (
	"sync"

	"krubolab/internal/localstore"
)

// Signal names a collection change notification.
type Signal int

const (
	// CartChanged fires after every cart write.
	CartChanged Signal = iota + 1
	// FavoritesChanged fires after every favorites write.
	FavoritesChanged
)

// String returns the wire name of the signal.
func (s Signal) String() string {
	switch s {
	case CartChanged:
		return "cart-changed"
	case FavoritesChanged:
		return "favorites-changed"
	default:
		return "unknown"
	}
}

// Handler is notified without payload; it re-reads whatever collection it shows.
type Handler func()

type subscription struct {
	id      int
	handler Handler
}

// Bus is a synchronous publish/subscribe hub for collection changes.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Signal][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Signal][]subscription),
	}
}

// Subscribe registers h for sig and returns a function that removes it.
func (b *Bus) Subscribe(sig Signal, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[sig] = append(b.subs[sig], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.subs[sig]
			for i, s := range subs {
				if s.id == id {
					b.subs[sig] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish invokes every handler registered for sig, in registration order,
// before returning.
func (b *Bus) Publish(sig Signal) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[sig]))
	copy(subs, b.subs[sig])
	b.mu.Unlock()

	for _, s := range subs {
		s.handler()
	}
}

// ForwardStorage republishes changes made by other storage clients as signals,
// so subscribers handle local and foreign writes the same way.
func (b *Bus) ForwardStorage(w localstore.Watcher, keys map[string]Signal) (stop func()) {
	routes := make(map[string]Signal, len(keys))
	for k, v := range keys {
		routes[k] = v
	}

	return w.Watch(func(key string) {
		if sig, ok := routes[key]; ok {
			b.Publish(sig)
		}
	})
}
