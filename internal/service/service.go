package service

import (
	"context"

	"krubolab/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// Search retrieves one page of products matching filter.
	Search(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create adds a product. An id is generated when the input has none.
	Create(ctx context.Context, in *model.ProductInput) (*model.Product, error)

	// Update replaces the product with the given id.
	Update(ctx context.Context, id string, in *model.ProductInput) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// OfferingService defines operations for workshop service offerings.
type OfferingService interface {
	GetAll(ctx context.Context) ([]model.ServiceOffering, error)
	Search(ctx context.Context, query string) ([]model.ServiceOffering, error)
	GetByID(ctx context.Context, id string) (*model.ServiceOffering, error)
	Create(ctx context.Context, in *model.OfferingInput) (*model.ServiceOffering, error)
	Update(ctx context.Context, id string, in *model.OfferingInput) (*model.ServiceOffering, error)
	Delete(ctx context.Context, id string) error
}

// ContactService defines operations for dashboard contacts.
type ContactService interface {
	GetAll(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	Create(ctx context.Context, in *model.ContactInput) (*model.Contact, error)
	Update(ctx context.Context, id string, in *model.ContactInput) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout validates a cart, prices it from the catalogue and stores the order.
	Checkout(ctx context.Context, req *model.OrderRequest) (*model.CheckoutResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns one page of orders for the admin dashboard.
	List(ctx context.Context, query model.OrderListQuery) (*model.OrderPage, error)

	// UpdateStatus moves an order to a new status and returns it.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// Delete removes an order.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthService checks the shared admin password.
type AuthService interface {
	// Login returns nil when password matches the configured admin password.
	Login(ctx context.Context, password string) error

	// Configured reports whether an admin password is set.
	Configured() bool
}
