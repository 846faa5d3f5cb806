package commerce

import (
	"krubolab/internal/model"
	"krubolab/internal/money"
)

// MaxQuantity is the largest quantity a single entry can hold. Larger
// requests and sums are capped to it.
const MaxQuantity = 9999

// Item is an entry of the cart or favorites collection. Display fields are
// copied from the product when the entry is created.
type Item struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       money.Amount `json:"price"`
	Quantity    int          `json:"quantity"`
	Color       string       `json:"color,omitempty"`
	Size        string       `json:"size,omitempty"`
	Image       string       `json:"image,omitempty"`
}

// LineTotal returns price times quantity.
func (i Item) LineTotal() money.Amount {
	return i.Price.Mul(i.Quantity)
}

// Variant selects optional color and size values. Nil fields are left unchanged.
type Variant struct {
	Color *string
	Size  *string
}

// NewItem snapshots a product into a collection entry with quantity 1.
// Unselected variant fields default to the product's first colour and measurement.
func NewItem(p model.Product, selected Variant) Item {
	item := Item{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    1,
		Color:       first(p.Colours),
		Size:        first(p.Measurements),
		Image:       first(p.Images),
	}
	if selected.Color != nil && *selected.Color != "" {
		item.Color = *selected.Color
	}
	if selected.Size != nil && *selected.Size != "" {
		item.Size = *selected.Size
	}
	return item
}

// Subtotal sums price times quantity over items.
func Subtotal(items []Item) money.Amount {
	var total money.Amount
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// clampQuantity bounds n to [1, MaxQuantity].
func clampQuantity(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxQuantity:
		return MaxQuantity
	}
	return n
}

// addQuantity sums two clamped quantities without leaving [1, MaxQuantity].
func addQuantity(a, b int) int {
	return clampQuantity(clampQuantity(a) + clampQuantity(b))
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
