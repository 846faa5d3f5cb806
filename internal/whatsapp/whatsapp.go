// Package whatsapp builds the click-to-chat link that hands a placed order
// over to the shop's WhatsApp line.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"krubolab/internal/model"
	"krubolab/internal/money"
)

const baseURL = "https://wa.me/"

// Builder renders order summaries for a single shop phone number.
type Builder struct {
	phone string
}

// NewBuilder returns a Builder for phone, given in international format.
// Anything that is not a digit is stripped.
func NewBuilder(phone string) *Builder {
	return &Builder{phone: digits(phone)}
}

// Phone returns the normalized number.
func (b *Builder) Phone() string {
	return b.phone
}

// Message returns the plain-text order summary sent in the chat.
func (b *Builder) Message(order *model.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hola, acabo de realizar el pedido %s\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&sb, "- %s x%d", item.Name, item.Quantity)
		if variant := variantLabel(item); variant != "" {
			fmt.Fprintf(&sb, " (%s)", variant)
		}
		fmt.Fprintf(&sb, ": %s\n", money.Format(item.LineTotal()))
	}
	fmt.Fprintf(&sb, "\nTotal: %s\n", money.Format(order.Subtotal))
	fmt.Fprintf(&sb, "Nombre: %s\n", order.Customer.FullName)
	fmt.Fprintf(&sb, "Ciudad: %s, %s", order.Customer.City, order.Customer.Department)
	return sb.String()
}

// URL returns the wa.me link with the order summary prefilled.
func (b *Builder) URL(order *model.Order) string {
	return b.Link(b.Message(order))
}

// Link returns a wa.me link prefilled with text.
func (b *Builder) Link(text string) string {
	if text == "" {
		return baseURL + b.phone
	}
	return baseURL + b.phone + "?text=" + url.QueryEscape(text)
}

func variantLabel(item model.OrderItem) string {
	var parts []string
	if item.Color != "" {
		parts = append(parts, "color: "+item.Color)
	}
	if item.Size != "" {
		parts = append(parts, "medida: "+item.Size)
	}
	return strings.Join(parts, ", ")
}

func digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
