package commerce

import (
	"testing"

	"krubolab/internal/localstore"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_String(t *testing.T) {
	assert.Equal(t, "cart-changed", CartChanged.String())
	assert.Equal(t, "favorites-changed", FavoritesChanged.String())
	assert.Equal(t, "unknown", Signal(0).String())
}

func TestBus_SubscribersRunInOrderOnce(t *testing.T) {
	store, _ := newTestStore(t)

	var calls []string
	store.Bus.Subscribe(CartChanged, func() { calls = append(calls, "badge") })
	store.Bus.Subscribe(CartChanged, func() { calls = append(calls, "checkout") })

	require.NoError(t, store.Cart.Add(sampleItem("A", 1), 1))

	assert.Equal(t, []string{"badge", "checkout"}, calls)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(FavoritesChanged, func() { calls++ })
	bus.Publish(FavoritesChanged)
	unsubscribe()
	unsubscribe()
	bus.Publish(FavoritesChanged)
	bus.Publish(CartChanged)

	assert.Equal(t, 1, calls)
}

func TestBus_HandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus()

	var calls []int
	var first func()
	first = bus.Subscribe(CartChanged, func() {
		calls = append(calls, 1)
		first()
	})
	bus.Subscribe(CartChanged, func() { calls = append(calls, 2) })

	bus.Publish(CartChanged)
	bus.Publish(CartChanged)

	assert.Equal(t, []int{1, 2, 2}, calls)
}

func TestStore_ForwardsOtherClientWrites(t *testing.T) {
	backend := localstore.NewMemoryBackend()
	tab1 := NewStore(backend.Open(), zerolog.Nop())
	tab2 := NewStore(backend.Open(), zerolog.Nop())
	t.Cleanup(tab1.Close)
	t.Cleanup(tab2.Close)

	var tab1Cart, tab2Cart, tab2Favorites int
	tab1.Bus.Subscribe(CartChanged, func() { tab1Cart++ })
	tab2.Bus.Subscribe(CartChanged, func() { tab2Cart++ })
	tab2.Bus.Subscribe(FavoritesChanged, func() { tab2Favorites++ })

	require.NoError(t, tab1.Cart.Add(sampleItem("A", 1), 1))

	// The writer sees its own signal once; the other tab sees the
	// forwarded storage notification and re-reads the shared state.
	assert.Equal(t, 1, tab1Cart)
	assert.Equal(t, 1, tab2Cart)
	assert.Equal(t, 0, tab2Favorites)
	assert.Equal(t, 1, tab2.Cart.Count())

	// Admin session keys are not collection signals.
	tab1.Session.SetAuthenticated(true)
	assert.Equal(t, 1, tab2Cart)
	assert.Equal(t, 0, tab2Favorites)
	assert.True(t, tab2.Session.IsAuthenticated())

	tab2.Close()
	_, err := tab1.Favorites.Toggle(sampleItem("B", 1))
	require.NoError(t, err)
	assert.Equal(t, 0, tab2Favorites)
}

func TestStore_CustomKeys(t *testing.T) {
	storage := localstore.NewMemoryStorage()
	store := NewStore(storage, zerolog.Nop(), WithCartKey("c"), WithFavoritesKey("f"))
	t.Cleanup(store.Close)

	require.NoError(t, store.Cart.Add(sampleItem("A", 1), 1))
	_, err := store.Favorites.Toggle(sampleItem("B", 1))
	require.NoError(t, err)

	_, ok, _ := storage.Get("c")
	assert.True(t, ok)
	_, ok, _ = storage.Get("f")
	assert.True(t, ok)
	_, ok, _ = storage.Get(DefaultCartKey)
	assert.False(t, ok)
}
