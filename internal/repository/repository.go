package repository

import (
	"context"
	"errors"

	"krubolab/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// Search retrieves one page of products matching filter.
	Search(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces a product. It reports whether the product existed.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. It reports whether the product existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Upsert inserts or replaces products in one batch.
	Upsert(ctx context.Context, products []model.Product) error
}

// OfferingRepository defines data access for workshop service offerings.
type OfferingRepository interface {
	GetAll(ctx context.Context) ([]model.ServiceOffering, error)
	// Search matches name, category or duration as a case-insensitive substring.
	Search(ctx context.Context, query string) ([]model.ServiceOffering, error)
	GetByID(ctx context.Context, id string) (*model.ServiceOffering, error)
	Create(ctx context.Context, offering *model.ServiceOffering) error
	Update(ctx context.Context, offering *model.ServiceOffering) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, offerings []model.ServiceOffering) error
}

// ContactRepository defines data access for dashboard contacts.
type ContactRepository interface {
	GetAll(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, contacts []model.Contact) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction. A taken
	// order number yields model.ErrDuplicateRecord.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. It returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns one page of orders matching the query and the total match count.
	List(ctx context.Context, query model.OrderListQuery) ([]model.Order, int, error)

	// UpdateStatus changes the status of an order. It reports whether the order existed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (bool, error)

	// Delete removes an order and its items. It reports whether the order existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a primary or unique key conflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
