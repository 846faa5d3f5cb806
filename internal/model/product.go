package model

import (
	"strings"
	"time"

	"krubolab/internal/money"
)

// Product represents an item of the workshop catalogue.
type Product struct {
	ID                    string       `json:"id" db:"id"`
	Name                  string       `json:"name" db:"name"`
	Price                 money.Amount `json:"price" db:"price"`
	Description           string       `json:"description" db:"description"`
	Category              string       `json:"category" db:"category"`
	Images                []string     `json:"images" db:"images"`
	Colours               []string     `json:"colours" db:"colours"`
	Measurements          []string     `json:"measurements" db:"measurements"`
	Materials             []string     `json:"materials" db:"materials"`
	AdditionalInformation string       `json:"additionalInformation" db:"additional_information"`
	CreatedAt             time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time    `json:"updatedAt" db:"updated_at"`
}

// ProductInput is the admin payload for creating or replacing a product.
type ProductInput struct {
	ID                    string       `json:"id,omitempty"`
	Name                  string       `json:"name"`
	Price                 money.Amount `json:"price"`
	Description           string       `json:"description"`
	Category              string       `json:"category"`
	Images                []string     `json:"images"`
	Colours               []string     `json:"colours"`
	Measurements          []string     `json:"measurements"`
	Materials             []string     `json:"materials"`
	AdditionalInformation string       `json:"additionalInformation"`
}

// ProductFilter narrows a catalogue listing. Search matches name, description,
// materials and colours as a case-insensitive substring; Material matches one
// material exactly, ignoring case and surrounding blanks.
type ProductFilter struct {
	Search   string
	Material string
}

// Normalize trims both fields.
func (f ProductFilter) Normalize() ProductFilter {
	return ProductFilter{
		Search:   strings.TrimSpace(f.Search),
		Material: strings.TrimSpace(f.Material),
	}
}

// IsZero reports whether the filter matches every product.
func (f ProductFilter) IsZero() bool {
	n := f.Normalize()
	return n.Search == "" && n.Material == ""
}
