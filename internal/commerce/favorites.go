package commerce

import (
	"krubolab/internal/money"
)

// Favorites is the wish list collection. Adding toggles presence; quantities
// never accumulate here.
type Favorites struct {
	adapter *Adapter
	key     string
}

// NewFavorites binds a favorites list to key in the adapter's storage.
func NewFavorites(adapter *Adapter, key string) *Favorites {
	return &Favorites{adapter: adapter, key: key}
}

// Items returns the current favorites.
func (f *Favorites) Items() []Item {
	return keepFirst(f.adapter.LoadCollection(f.key))
}

// Count returns the number of favorite entries.
func (f *Favorites) Count() int {
	return len(f.Items())
}

// Contains reports whether id is a favorite.
func (f *Favorites) Contains(id string) bool {
	return indexOf(f.Items(), id) >= 0
}

// Subtotal returns the total of all favorites.
func (f *Favorites) Subtotal() money.Amount {
	return Subtotal(f.Items())
}

// Toggle removes item if present, otherwise adds it with quantity 1.
// It reports whether the item is a favorite afterwards.
func (f *Favorites) Toggle(item Item) (bool, error) {
	if item.ID == "" {
		return false, ErrMissingID
	}
	if f.Remove(item.ID) {
		return false, nil
	}

	item.Quantity = 1
	f.adapter.SaveCollection(f.key, append(f.Items(), item))
	return true, nil
}

// Add inserts item if absent. An existing entry is left unchanged.
func (f *Favorites) Add(item Item, qty int) error {
	if item.ID == "" {
		return ErrMissingID
	}

	items := f.Items()
	if indexOf(items, item.ID) >= 0 {
		return nil
	}
	item.Quantity = clampQuantity(qty)

	f.adapter.SaveCollection(f.key, append(items, item))
	return nil
}

// Remove deletes id. It reports whether anything changed.
func (f *Favorites) Remove(id string) bool {
	items := f.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false
	}

	items = append(items[:i], items[i+1:]...)
	f.adapter.SaveCollection(f.key, items)
	return true
}

// SetQuantity sets the quantity of id, capped at MaxQuantity; n <= 0 removes it.
func (f *Favorites) SetQuantity(id string, n int) bool {
	if n <= 0 {
		return f.Remove(id)
	}

	items := f.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false
	}

	items[i].Quantity = clampQuantity(n)
	f.adapter.SaveCollection(f.key, items)
	return true
}

// SetVariant updates the color and/or size of id.
func (f *Favorites) SetVariant(id string, v Variant) bool {
	items := f.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false
	}

	applyVariant(&items[i], v)
	f.adapter.SaveCollection(f.key, items)
	return true
}

// MoveToCart adds the favorite snapshot to cart and then removes it here.
// The second result reports whether the favorites list is now empty.
func (f *Favorites) MoveToCart(id string, cart *Cart) (moved bool, empty bool) {
	items := f.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false, len(items) == 0
	}

	item := items[i]
	if err := cart.Add(item, item.Quantity); err != nil {
		return false, false
	}
	f.Remove(id)

	return true, f.Count() == 0
}

// keepFirst drops later duplicates of an id.
func keepFirst(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if indexOf(out, item.ID) >= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}
