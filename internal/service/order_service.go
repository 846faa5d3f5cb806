package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"krubolab/internal/mail"
	"krubolab/internal/model"
	"krubolab/internal/repository"
	"krubolab/internal/whatsapp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderNumberPrefix starts every human-facing order number.
const OrderNumberPrefix = "KRU-"

const maxOrdersPerPage = 100

// maxOrderNumberAttempts bounds the retries when two checkouts share a millisecond.
const maxOrderNumberAttempts = 5

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifier    mail.Notifier
	whatsapp    *whatsapp.Builder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifier mail.Notifier,
	wa *whatsapp.Builder,
	logger zerolog.Logger,
) OrderService {
	if notifier == nil {
		notifier = mail.NoopNotifier{}
	}
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		whatsapp:    wa,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// Checkout validates the request, prices every line from the catalogue and
// stores the order with its items in one transaction.
func (s *orderService) Checkout(ctx context.Context, req *model.OrderRequest) (*model.CheckoutResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	products, err := s.catalogue(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:          uuid.New(),
		Customer:    normalizeCustomer(req.Customer),
		Status:      model.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	order.Items = make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		product := products[item.ID]
		line := model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
			Image:     item.Image,
		}
		if line.Image == "" && len(product.Images) > 0 {
			line.Image = product.Images[0]
		}
		order.Items[i] = line
		order.Subtotal += line.LineTotal()
	}

	if err := s.saveWithNumber(ctx, order, now); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(order.Items)).
		Int64("subtotal", int64(order.Subtotal)).
		Msg("order created successfully")

	if err := s.notifier.OrderPlaced(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("failed to send order confirmation")
	}

	return &model.CheckoutResponse{
		Order:       order,
		WhatsAppURL: s.whatsapp.URL(order),
	}, nil
}

// catalogue loads the products referenced by items, keyed by id.
func (s *orderService) catalogue(ctx context.Context, items []model.OrderItemRequest) (map[string]model.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			s.logger.Warn().Str("product_id", id).Msg("product validation failed")
			return nil, model.ErrProductNotFound
		}
	}
	return byID, nil
}

// saveWithNumber assigns KRU-<unix millis> and stores the order. A number
// taken by a concurrent checkout is retried as KRU-<millis>-2, -3 and so on.
func (s *orderService) saveWithNumber(ctx context.Context, order *model.Order, now time.Time) error {
	base := fmt.Sprintf("%s%d", OrderNumberPrefix, now.UnixMilli())
	for attempt := 1; ; attempt++ {
		order.OrderNumber = base
		if attempt > 1 {
			order.OrderNumber = fmt.Sprintf("%s-%d", base, attempt)
		}

		err := s.save(ctx, order)
		if !errors.Is(err, model.ErrDuplicateRecord) {
			return err
		}
		if attempt == maxOrderNumberAttempts {
			s.logger.Error().Str("order_number", base).Int("attempts", attempt).Msg("no free order number")
			return fmt.Errorf("failed to create order: no free order number after %d attempts", attempt)
		}
		s.logger.Warn().Str("order_number", order.OrderNumber).Msg("order number collision, retrying")
	}
}

func (s *orderService) save(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List returns one page of orders. Unknown sort keys fall back to newest first.
func (s *orderService) List(ctx context.Context, q model.OrderListQuery) (*model.OrderPage, error) {
	q = normalizeListQuery(q)

	orders, total, err := s.orderRepo.List(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Str("search", q.Search).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &model.OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: (total + q.PerPage - 1) / q.PerPage,
	}, nil
}

// UpdateStatus moves an order to status.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidOrderStatus
	}

	found, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !found {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Str("status", string(status)).Msg("order status updated")
	return s.GetByID(ctx, id)
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !found {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	c := req.Customer
	required := []struct {
		field string
		value string
	}{
		{"email", c.Email},
		{"fullName", c.FullName},
		{"identificationNumber", c.IdentificationNumber},
		{"phone", c.Phone},
		{"department", c.Department},
		{"city", c.City},
		{"locality", c.Locality},
		{"street", c.Street},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return model.MissingCustomerField(r.field)
		}
	}

	for i, item := range req.Items {
		if item.ID == "" {
			return model.ErrMissingItemID
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

func normalizeCustomer(c model.Customer) model.Customer {
	c.Email = strings.TrimSpace(c.Email)
	c.FullName = strings.TrimSpace(c.FullName)
	c.IdentificationType = strings.TrimSpace(c.IdentificationType)
	if c.IdentificationType == "" {
		c.IdentificationType = model.DefaultIdentificationType
	}
	c.IdentificationNumber = strings.TrimSpace(c.IdentificationNumber)
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}

func normalizeListQuery(q model.OrderListQuery) model.OrderListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = model.DefaultOrdersPerPage
	}
	if q.PerPage > maxOrdersPerPage {
		q.PerPage = maxOrdersPerPage
	}
	if q.SortBy == "" {
		q.SortBy = model.OrderSortCreatedAt
		q.SortDesc = true
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

