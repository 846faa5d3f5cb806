package commerce

import (
	"errors"

	"krubolab/internal/money"
)

// ErrMissingID is returned when an item without an id is added.
var ErrMissingID = errors.New("item id is required")

// Cart is the shopping cart collection. Adding an id that is already present
// accumulates its quantity.
type Cart struct {
	adapter *Adapter
	key     string
}

// NewCart binds a cart to key in the adapter's storage.
func NewCart(adapter *Adapter, key string) *Cart {
	return &Cart{adapter: adapter, key: key}
}

// Items returns the current cart contents.
func (c *Cart) Items() []Item {
	return mergeQuantities(c.adapter.LoadCollection(c.key))
}

// Count returns the total number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items() {
		n += item.Quantity
	}
	return n
}

// Contains reports whether id is in the cart.
func (c *Cart) Contains(id string) bool {
	return indexOf(c.Items(), id) >= 0
}

// Subtotal returns the cart total.
func (c *Cart) Subtotal() money.Amount {
	return Subtotal(c.Items())
}

// Add puts qty units of item in the cart. A quantity below 1 counts as 1 and
// the resulting line never exceeds MaxQuantity.
func (c *Cart) Add(item Item, qty int) error {
	if item.ID == "" {
		return ErrMissingID
	}

	items := c.Items()
	if i := indexOf(items, item.ID); i >= 0 {
		items[i].Quantity = addQuantity(items[i].Quantity, qty)
	} else {
		item.Quantity = clampQuantity(qty)
		items = append(items, item)
	}

	c.adapter.SaveCollection(c.key, items)
	return nil
}

// Remove deletes id from the cart. It reports whether anything changed.
func (c *Cart) Remove(id string) bool {
	items := c.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false
	}

	items = append(items[:i], items[i+1:]...)
	c.adapter.SaveCollection(c.key, items)
	return true
}

// SetQuantity sets the quantity of id, capped at MaxQuantity; n <= 0 removes it.
func (c *Cart) SetQuantity(id string, n int) bool {
	if n <= 0 {
		return c.Remove(id)
	}

	items := c.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false
	}

	items[i].Quantity = clampQuantity(n)
	c.adapter.SaveCollection(c.key, items)
	return true
}

// SetVariant updates the color and/or size of id.
func (c *Cart) SetVariant(id string, v Variant) bool {
	items := c.Items()
	i := indexOf(items, id)
	if i < 0 {
		return false
	}

	applyVariant(&items[i], v)
	c.adapter.SaveCollection(c.key, items)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.adapter.ClearCollection(c.key)
}

func applyVariant(item *Item, v Variant) {
	if v.Color != nil {
		item.Color = *v.Color
	}
	if v.Size != nil {
		item.Size = *v.Size
	}
}

// mergeQuantities folds duplicate ids into the first occurrence.
func mergeQuantities(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if i := indexOf(out, item.ID); i >= 0 {
			out[i].Quantity = addQuantity(out[i].Quantity, item.Quantity)
			continue
		}
		out = append(out, item)
	}
	return out
}
