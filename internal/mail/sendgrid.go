package mail

import (
	"context"
	"errors"
	"fmt"

	"krubolab/internal/model"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sender is the subset of the SendGrid client used here.
type sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier delivers notifications through the SendGrid v3 API.
type SendGridNotifier struct {
	client     sender
	from       *sgmail.Email
	adminEmail string
	logger     zerolog.Logger
}

// NewSendGridNotifier creates a notifier. adminEmail, when set, receives a
// blind copy of every confirmation.
func NewSendGridNotifier(apiKey, fromName, fromEmail, adminEmail string, logger zerolog.Logger) (*SendGridNotifier, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if fromEmail == "" {
		return nil, errors.New("from address is empty")
	}
	return &SendGridNotifier{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(fromName, fromEmail),
		adminEmail: adminEmail,
		logger:     logger.With().Str("notifier", "sendgrid").Logger(),
	}, nil
}

// OrderPlaced implements Notifier.
func (n *SendGridNotifier) OrderPlaced(ctx context.Context, order *model.Order) error {
	if order.Customer.Email == "" {
		return errors.New("to address is empty")
	}

	msg := RenderOrderPlaced(order)
	email := sgmail.NewSingleEmail(
		n.from,
		msg.Subject,
		sgmail.NewEmail(order.Customer.FullName, order.Customer.Email),
		msg.Text,
		msg.HTML,
	)
	if n.adminEmail != "" && len(email.Personalizations) > 0 {
		email.Personalizations[0].AddBCCs(sgmail.NewEmail("", n.adminEmail))
	}

	response, err := n.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		n.logger.Error().
			Int("status", response.StatusCode).
			Str("body", response.Body).
			Str("order_number", order.OrderNumber).
			Msg("sendgrid rejected message")
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	n.logger.Info().
		Int("status", response.StatusCode).
		Str("order_number", order.OrderNumber).
		Msg("order confirmation sent")
	return nil
}
