package model

import (
	"time"

	"krubolab/internal/money"
)

// ServiceOffering is a workshop service such as laser cutting or repairs.
type ServiceOffering struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	Price       money.Amount `json:"price" db:"price"`
	Duration    string       `json:"duration" db:"duration"`
	Category    string       `json:"category" db:"category"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// OfferingInput is the admin payload for a service offering.
type OfferingInput struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	Duration    string       `json:"duration"`
	Category    string       `json:"category"`
}
