package commerce

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"krubolab/internal/localstore"

	"github.com/rs/zerolog"
)

// CollectionVersion is the current stored format version.
const CollectionVersion = 1

var (
	errLegacyShape    = errors.New("legacy id-list collection")
	errUnknownVersion = errors.New("unknown collection version")
)

// envelope is the stored form of a collection.
type envelope struct {
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// Adapter reads and writes collections in a Storage. It never reports errors
// to callers: unreadable data loads as an empty collection and failed writes
// are kept in memory for the rest of the session.
type Adapter struct {
	storage localstore.Storage
	bus     *Bus
	logger  zerolog.Logger
	signals map[string]Signal

	mu      sync.Mutex
	pending map[string][]Item
}

// NewAdapter creates an adapter. signals maps storage keys to the signal
// published after each write to that key.
func NewAdapter(storage localstore.Storage, bus *Bus, signals map[string]Signal, logger zerolog.Logger) *Adapter {
	routes := make(map[string]Signal, len(signals))
	for k, v := range signals {
		routes[k] = v
	}

	return &Adapter{
		storage: storage,
		bus:     bus,
		logger:  logger.With().Str("component", "collection-adapter").Logger(),
		signals: routes,
		pending: make(map[string][]Item),
	}
}

// LoadCollection returns the collection stored under key, or an empty slice.
// A legacy list of bare ids is discarded and the key cleared.
func (a *Adapter) LoadCollection(key string) []Item {
	a.mu.Lock()
	if items, ok := a.pending[key]; ok {
		a.mu.Unlock()
		return cloneItems(items)
	}
	a.mu.Unlock()

	raw, ok, err := a.storage.Get(key)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("failed to read collection")
		return []Item{}
	}
	if !ok {
		return []Item{}
	}

	items, err := decodeCollection([]byte(raw))
	switch {
	case err == nil:
		return items
	case errors.Is(err, errLegacyShape):
		a.logger.Info().Str("key", key).Msg("discarding legacy collection")
		if rmErr := a.storage.Remove(key); rmErr != nil {
			a.logger.Warn().Err(rmErr).Str("key", key).Msg("failed to clear legacy collection")
		}
		return []Item{}
	default:
		a.logger.Warn().Err(err).Str("key", key).Msg("ignoring unreadable collection")
		return []Item{}
	}
}

// SaveCollection writes items under key and publishes the key's signal.
func (a *Adapter) SaveCollection(key string, items []Item) {
	data, err := encodeCollection(items)
	if err == nil {
		err = a.storage.Set(key, string(data))
	}
	a.settle(key, items, err)
	a.publish(key)
}

// ClearCollection removes key entirely and publishes the key's signal.
func (a *Adapter) ClearCollection(key string) {
	err := a.storage.Remove(key)
	a.settle(key, []Item{}, err)
	a.publish(key)
}

// settle records the outcome of a write. After a failure the in-memory copy
// is authoritative until a later write succeeds.
func (a *Adapter) settle(key string, items []Item, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Int("items", len(items)).Msg("failed to persist collection, keeping in memory")
		a.pending[key] = cloneItems(items)
		return
	}
	delete(a.pending, key)
}

func (a *Adapter) publish(key string) {
	if sig, ok := a.signals[key]; ok && a.bus != nil {
		a.bus.Publish(sig)
	}
}

func encodeCollection(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: CollectionVersion, Payload: payload})
}

// decodeCollection understands the versioned envelope and the unversioned
// array written by older clients (version 0).
func decodeCollection(raw []byte) ([]Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty collection value")
	}

	switch raw[0] {
	case '[':
		return decodeVersion0(raw)
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("invalid collection envelope: %w", err)
		}
		if env.Version != CollectionVersion {
			return nil, fmt.Errorf("%w: %d", errUnknownVersion, env.Version)
		}
		var items []Item
		if err := json.Unmarshal(env.Payload, &items); err != nil {
			return nil, fmt.Errorf("invalid collection payload: %w", err)
		}
		if items == nil {
			return nil, fmt.Errorf("collection payload is not an array")
		}
		return normalize(items), nil
	default:
		return nil, fmt.Errorf("collection is not an array")
	}
}

func decodeVersion0(raw []byte) ([]Item, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("invalid collection array: %w", err)
	}
	if len(elems) == 0 {
		return []Item{}, nil
	}

	if head := bytes.TrimSpace(elems[0]); len(head) > 0 && head[0] != '{' {
		var shape any
		if err := json.Unmarshal(head, &shape); err == nil {
			switch shape.(type) {
			case string, float64:
				return nil, errLegacyShape
			}
		}
		return nil, fmt.Errorf("collection element is not an object")
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("invalid collection items: %w", err)
	}
	return normalize(items), nil
}

// normalize drops entries without an id and bounds quantities to [1, MaxQuantity].
func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		item.Quantity = clampQuantity(item.Quantity)
		out = append(out, item)
	}
	return out
}
