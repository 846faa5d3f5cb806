package model

import (
	"time"

	"krubolab/internal/money"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// DefaultIdentificationType is used when the customer does not pick one.
const DefaultIdentificationType = "cedula"

// Customer holds the shipping and contact details captured at checkout.
type Customer struct {
	Email                string `json:"email"`
	FullName             string `json:"fullName"`
	IdentificationType   string `json:"identificationType"`
	IdentificationNumber string `json:"identificationNumber"`
	Phone                string `json:"phone"`
	Department           string `json:"department"`
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	Street               string `json:"street"`
	AdditionalInfo       string `json:"additionalInfo,omitempty"`
}

// Order represents a customer order.
type Order struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	OrderNumber string       `json:"orderNumber" db:"order_number"`
	Customer    Customer     `json:"customer" db:"customer"`
	Items       []OrderItem  `json:"items"`
	Subtotal    money.Amount `json:"subtotal" db:"subtotal"`
	Status      OrderStatus  `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Display fields are a
// snapshot taken when the order was placed.
type OrderItem struct {
	ID        uuid.UUID    `json:"-" db:"id"`
	OrderID   uuid.UUID    `json:"-" db:"order_id"`
	ProductID string       `json:"id" db:"product_id"`
	Name      string       `json:"name" db:"name"`
	Price     money.Amount `json:"price" db:"price"`
	Quantity  int          `json:"quantity" db:"quantity"`
	Color     string       `json:"color,omitempty" db:"color"`
	Size      string       `json:"size,omitempty" db:"size"`
	Image     string       `json:"image,omitempty" db:"image"`
}

// LineTotal returns price times quantity.
func (i OrderItem) LineTotal() money.Amount {
	return i.Price.Mul(i.Quantity)
}

// OrderRequest represents the checkout payload.
type OrderRequest struct {
	Customer Customer           `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
}

// OrderItemRequest is a cart entry submitted at checkout. Name and price are
// resolved from the catalogue; the variant fields are kept as sent.
type OrderItemRequest struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	Price    money.Amount `json:"price,omitempty"`
	Quantity int          `json:"quantity"`
	Color    string       `json:"color,omitempty"`
	Size     string       `json:"size,omitempty"`
	Image    string       `json:"image,omitempty"`
}

// CheckoutResponse is returned after an order is placed.
type CheckoutResponse struct {
	Order       *Order `json:"order"`
	WhatsAppURL string `json:"whatsappUrl"`
}

// OrderStatusUpdate is the admin payload for changing an order status.
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}

// Sortable order columns.
const (
	OrderSortNumber        = "orderNumber"
	OrderSortCreatedAt     = "createdAt"
	OrderSortSubtotal      = "subtotal"
	OrderSortStatus        = "status"
	OrderSortCustomerName  = "customerName"
	OrderSortCustomerEmail = "customerEmail"
	OrderSortItems         = "items"
)

// DefaultOrdersPerPage is the admin list page size.
const DefaultOrdersPerPage = 10

// OrderListQuery filters, sorts and pages the admin order list.
type OrderListQuery struct {
	Search   string
	SortBy   string
	SortDesc bool
	Page     int
	PerPage  int
}

// OrderPage is one page of the admin order list.
type OrderPage struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalPages int     `json:"totalPages"`
}
