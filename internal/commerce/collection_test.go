package commerce

import (
	"errors"
	"testing"

	"krubolab/internal/localstore"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStorage wraps a storage and fails writes while broken is set.
type flakyStorage struct {
	localstore.Storage
	broken bool
}

func (f *flakyStorage) Set(key, value string) error {
	if f.broken {
		return localstore.ErrQuotaExceeded
	}
	return f.Storage.Set(key, value)
}

func (f *flakyStorage) Remove(key string) error {
	if f.broken {
		return errors.New("storage disabled")
	}
	return f.Storage.Remove(key)
}

func newTestAdapter(storage localstore.Storage) (*Adapter, *Bus) {
	bus := NewBus()
	signals := map[string]Signal{
		DefaultCartKey:      CartChanged,
		DefaultFavoritesKey: FavoritesChanged,
	}
	return NewAdapter(storage, bus, signals, zerolog.Nop()), bus
}

func TestAdapter_RoundTrip(t *testing.T) {
	storage := localstore.NewMemoryStorage()
	adapter, _ := newTestAdapter(storage)

	items := []Item{
		{ID: "p1", Name: "Silla", Price: 50000, Quantity: 2, Color: "Roble", Size: "M"},
		{ID: "p2", Name: "Mesa", Description: "Mesa auxiliar", Price: 120000, Quantity: 1, Image: "mesa.jpg"},
	}
	adapter.SaveCollection(DefaultCartKey, items)

	assert.Equal(t, items, adapter.LoadCollection(DefaultCartKey))

	raw, ok, err := storage.Get(DefaultCartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"version":1,"payload":[
		{"id":"p1","name":"Silla","price":50000,"quantity":2,"color":"Roble","size":"M"},
		{"id":"p2","name":"Mesa","description":"Mesa auxiliar","price":120000,"quantity":1,"image":"mesa.jpg"}
	]}`, raw)
}

func TestAdapter_LoadCollection(t *testing.T) {
	tests := []struct {
		name     string
		stored   *string
		expected []Item
		keyKept  bool
	}{
		{
			name:     "absent key",
			stored:   nil,
			expected: []Item{},
		},
		{
			name:     "unparsable value",
			stored:   strPtr("{not json"),
			expected: []Item{},
			keyKept:  true,
		},
		{
			name:     "not an array",
			stored:   strPtr(`"hello"`),
			expected: []Item{},
			keyKept:  true,
		},
		{
			name:     "unknown version",
			stored:   strPtr(`{"version":7,"payload":[{"id":"p1","price":1,"quantity":1}]}`),
			expected: []Item{},
			keyKept:  true,
		},
		{
			name:     "envelope with non-array payload",
			stored:   strPtr(`{"version":1,"payload":{"id":"p1"}}`),
			expected: []Item{},
			keyKept:  true,
		},
		{
			name:     "unversioned array of objects",
			stored:   strPtr(`[{"id":"p1","name":"Silla","price":"60.000","quantity":2}]`),
			expected: []Item{{ID: "p1", Name: "Silla", Price: 60000, Quantity: 2}},
			keyKept:  true,
		},
		{
			name:     "normalizes entries",
			stored:   strPtr(`{"version":1,"payload":[{"id":"","price":1},{"id":"p1","price":10,"quantity":0},{"id":"p2","price":5}]}`),
			expected: []Item{{ID: "p1", Price: 10, Quantity: 1}, {ID: "p2", Price: 5, Quantity: 1}},
			keyKept:  true,
		},
		{
			name:     "legacy numeric ids",
			stored:   strPtr(`[1, 2, 3]`),
			expected: []Item{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := localstore.NewMemoryStorage()
			if tt.stored != nil {
				require.NoError(t, storage.Set(DefaultCartKey, *tt.stored))
			}
			adapter, _ := newTestAdapter(storage)

			assert.Equal(t, tt.expected, adapter.LoadCollection(DefaultCartKey))

			_, ok, err := storage.Get(DefaultCartKey)
			require.NoError(t, err)
			assert.Equal(t, tt.keyKept, ok)
		})
	}
}

func TestAdapter_LegacyShapeIsWipedIdempotently(t *testing.T) {
	storage := localstore.NewMemoryStorage()
	require.NoError(t, storage.Set(DefaultFavoritesKey, `["p1","p2"]`))
	adapter, _ := newTestAdapter(storage)

	assert.Equal(t, []Item{}, adapter.LoadCollection(DefaultFavoritesKey))
	_, ok, _ := storage.Get(DefaultFavoritesKey)
	assert.False(t, ok)

	assert.Equal(t, []Item{}, adapter.LoadCollection(DefaultFavoritesKey))
}

func TestAdapter_SavePublishesMatchingSignal(t *testing.T) {
	adapter, bus := newTestAdapter(localstore.NewMemoryStorage())

	var cart, favorites int
	bus.Subscribe(CartChanged, func() { cart++ })
	bus.Subscribe(FavoritesChanged, func() { favorites++ })

	adapter.SaveCollection(DefaultCartKey, []Item{{ID: "p1", Price: 1, Quantity: 1}})
	adapter.ClearCollection(DefaultCartKey)
	adapter.SaveCollection(DefaultFavoritesKey, nil)

	assert.Equal(t, 2, cart)
	assert.Equal(t, 1, favorites)
}

func TestAdapter_WriteFailureKeepsMemoryState(t *testing.T) {
	storage := &flakyStorage{Storage: localstore.NewMemoryStorage()}
	adapter, bus := newTestAdapter(storage)

	adapter.SaveCollection(DefaultCartKey, []Item{{ID: "p1", Price: 100, Quantity: 1}})

	notified := 0
	bus.Subscribe(CartChanged, func() { notified++ })

	storage.broken = true
	updated := []Item{{ID: "p1", Price: 100, Quantity: 3}}
	adapter.SaveCollection(DefaultCartKey, updated)

	// The failed write is still broadcast and visible in this session.
	assert.Equal(t, 1, notified)
	assert.Equal(t, updated, adapter.LoadCollection(DefaultCartKey))

	raw, _, _ := storage.Get(DefaultCartKey)
	assert.Contains(t, raw, `"quantity":1`)

	// A later successful write brings storage back in line.
	storage.broken = false
	adapter.SaveCollection(DefaultCartKey, []Item{{ID: "p1", Price: 100, Quantity: 4}})

	raw, _, _ = storage.Get(DefaultCartKey)
	assert.Contains(t, raw, `"quantity":4`)
	assert.Equal(t, 4, adapter.LoadCollection(DefaultCartKey)[0].Quantity)
}

func strPtr(s string) *string {
	return &s
}
