// Package commerce keeps the shopper's cart and favorites in client-side
// storage and tells interested views when either one changes.
package commerce

import (
	"krubolab/internal/localstore"

	"github.com/rs/zerolog"
)

// Default storage keys.
const (
	DefaultCartKey      = "krubolab-cart"
	DefaultFavoritesKey = "krubolab-favorites"
)

type storeOptions struct {
	cartKey      string
	favoritesKey string
	sessionKeys  SessionKeys
}

// Option configures a Store.
type Option func(*storeOptions)

// WithCartKey overrides the cart storage key.
func WithCartKey(key string) Option {
	return func(o *storeOptions) {
		o.cartKey = key
	}
}

// WithFavoritesKey overrides the favorites storage key.
func WithFavoritesKey(key string) Option {
	return func(o *storeOptions) {
		o.favoritesKey = key
	}
}

// WithSessionKeys overrides the admin session storage keys.
func WithSessionKeys(keys SessionKeys) Option {
	return func(o *storeOptions) {
		o.sessionKeys = keys
	}
}

// Store owns the commerce state of one client. Create it once at the
// application root and hand it to whatever needs it.
type Store struct {
	Bus       *Bus
	Cart      *Cart
	Favorites *Favorites
	Session   *AdminSession

	stopForward func()
}

// NewStore wires the cart, favorites and admin session over storage. If the
// storage reports foreign writes, they are forwarded onto the bus.
func NewStore(storage localstore.Storage, logger zerolog.Logger, opts ...Option) *Store {
	o := storeOptions{
		cartKey:      DefaultCartKey,
		favoritesKey: DefaultFavoritesKey,
		sessionKeys:  DefaultSessionKeys(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger = logger.With().Str("component", "commerce-store").Logger()

	bus := NewBus()
	signals := map[string]Signal{
		o.cartKey:      CartChanged,
		o.favoritesKey: FavoritesChanged,
	}
	adapter := NewAdapter(storage, bus, signals, logger)

	s := &Store{
		Bus:       bus,
		Cart:      NewCart(adapter, o.cartKey),
		Favorites: NewFavorites(adapter, o.favoritesKey),
		Session:   NewAdminSession(storage, o.sessionKeys, logger),
	}

	if w, ok := storage.(localstore.Watcher); ok {
		s.stopForward = bus.ForwardStorage(w, signals)
		logger.Debug().Msg("forwarding foreign storage changes")
	}

	return s
}

// Close stops forwarding storage notifications.
func (s *Store) Close() {
	if s.stopForward != nil {
		s.stopForward()
		s.stopForward = nil
	}
}
