package localstore

import (
	"sync"
)

// MemoryBackend is an in-process store shared by any number of clients
// (the equivalent of several browser tabs on one origin).
type MemoryBackend struct {
	mu      sync.Mutex
	data    map[string]string
	quota   int
	clients []*MemoryStorage
}

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithQuota limits the total size in bytes of keys and values.
// Zero means unlimited.
func WithQuota(bytes int) MemoryOption {
	return func(b *MemoryBackend) {
		b.quota = bytes
	}
}

// NewMemoryBackend creates an empty shared backend.
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		data: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open returns a new client of the backend.
func (b *MemoryBackend) Open() *MemoryStorage {
	s := &MemoryStorage{backend: b}

	b.mu.Lock()
	b.clients = append(b.clients, s)
	b.mu.Unlock()

	return s
}

func (b *MemoryBackend) size() int {
	total := 0
	for k, v := range b.data {
		total += len(k) + len(v)
	}
	return total
}

// notify delivers a change to every client except the writer.
// Watchers run outside the backend lock.
func (b *MemoryBackend) notify(writer *MemoryStorage, key string) {
	b.mu.Lock()
	var targets []func(string)
	for _, c := range b.clients {
		if c == writer {
			continue
		}
		targets = append(targets, c.watchersSnapshot()...)
	}
	b.mu.Unlock()

	for _, fn := range targets {
		fn(key)
	}
}

// MemoryStorage is one client of a MemoryBackend.
type MemoryStorage struct {
	backend *MemoryBackend

	wmu      sync.Mutex
	nextID   int
	watchers map[int]func(string)
	order    []int
}

// NewMemoryStorage returns a client of a fresh private backend.
func NewMemoryStorage(opts ...MemoryOption) *MemoryStorage {
	return NewMemoryBackend(opts...).Open()
}

// Get returns the stored value and whether the key was present.
func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	v, ok := s.backend.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *MemoryStorage) Set(key, value string) error {
	b := s.backend

	b.mu.Lock()
	if b.quota > 0 {
		projected := b.size() - len(b.data[key]) + len(value)
		if _, exists := b.data[key]; !exists {
			projected += len(key)
		}
		if projected > b.quota {
			b.mu.Unlock()
			return ErrQuotaExceeded
		}
	}
	b.data[key] = value
	b.mu.Unlock()

	b.notify(s, key)
	return nil
}

// Remove deletes key.
func (s *MemoryStorage) Remove(key string) error {
	b := s.backend

	b.mu.Lock()
	_, existed := b.data[key]
	delete(b.data, key)
	b.mu.Unlock()

	if existed {
		b.notify(s, key)
	}
	return nil
}

// Watch registers fn for writes made by other clients of the same backend.
func (s *MemoryStorage) Watch(fn func(key string)) (stop func()) {
	s.wmu.Lock()
	if s.watchers == nil {
		s.watchers = make(map[int]func(string))
	}
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.order = append(s.order, id)
	s.wmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.wmu.Lock()
			defer s.wmu.Unlock()
			delete(s.watchers, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *MemoryStorage) watchersSnapshot() []func(string) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	fns := make([]func(string), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.watchers[id])
	}
	return fns
}
