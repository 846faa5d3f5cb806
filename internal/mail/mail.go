// Package mail sends order confirmations.
package mail

import (
	"context"
	"fmt"
	"strings"

	"krubolab/internal/model"
	"krubolab/internal/money"
)

// Notifier delivers order notifications.
type Notifier interface {
	// OrderPlaced tells the customer (and the shop, when configured) that an
	// order was received.
	OrderPlaced(ctx context.Context, order *model.Order) error
}

// NoopNotifier discards every notification. It is used when mail is disabled.
type NoopNotifier struct{}

// OrderPlaced implements Notifier.
func (NoopNotifier) OrderPlaced(context.Context, *model.Order) error {
	return nil
}

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// RenderOrderPlaced renders the confirmation sent after checkout.
func RenderOrderPlaced(order *model.Order) Message {
	var text strings.Builder
	fmt.Fprintf(&text, "Hola %s,\n\n", order.Customer.FullName)
	fmt.Fprintf(&text, "Recibimos tu pedido %s.\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&text, "%d x %s  %s\n", item.Quantity, item.Name, money.Format(item.LineTotal()))
	}
	fmt.Fprintf(&text, "\nTotal: %s\n\n", money.Format(order.Subtotal))
	fmt.Fprintf(&text, "Envío a: %s, %s, %s, %s\n", order.Customer.Street, order.Customer.Locality,
		order.Customer.City, order.Customer.Department)
	text.WriteString("\nTe contactaremos por WhatsApp para coordinar el pago y la entrega.\n")

	body := text.String()
	return Message{
		Subject: fmt.Sprintf("Pedido %s recibido", order.OrderNumber),
		Text:    body,
		HTML:    "<pre>" + htmlEscaper.Replace(body) + "</pre>",
	}
}

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
	`'`, "&#39;",
)
