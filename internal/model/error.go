package model

// Standard error codes for API responses
const (
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOfferingNotFound   = "SERVICE_NOT_FOUND"
	ErrCodeContactNotFound    = "CONTACT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodePasswordRequired   = "PASSWORD_REQUIRED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeNotConfigured      = "NOT_CONFIGURED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeDuplicateRecord    = "DUPLICATE_RECORD"
	ErrCodeMissingCustomerKey = "MISSING_CUSTOMER_FIELD"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOfferingNotFound     = NewDomainError(ErrCodeOfferingNotFound, "Service not found")
	ErrContactNotFound      = NewDomainError(ErrCodeContactNotFound, "Contact not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPrice         = NewDomainError(ErrCodeInvalidPrice, "Price cannot be negative")
	ErrEmptyOrder           = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrMissingName          = NewDomainError(ErrCodeMissingField, "Name is required")
	ErrMissingItemID        = NewDomainError(ErrCodeMissingField, "Item id is required")
	ErrInvalidOrderStatus   = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidContactStatus = NewDomainError(ErrCodeInvalidStatus, "Unknown contact status")
	ErrDuplicateRecord      = NewDomainError(ErrCodeDuplicateRecord, "A record with this id already exists")

	ErrPasswordRequired   = NewDomainError(ErrCodePasswordRequired, "Password is required")
	ErrInvalidPassword    = NewDomainError(ErrCodeUnauthorised, "Invalid password")
	ErrAdminNotConfigured = NewDomainError(ErrCodeNotConfigured, "Server configuration error")
)

// MissingCustomerField reports a required checkout field left empty.
func MissingCustomerField(field string) *DomainError {
	return NewDomainError(ErrCodeMissingCustomerKey, "Customer "+field+" is required")
}
