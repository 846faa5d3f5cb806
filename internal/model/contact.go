package model

import "time"

// ContactStatus is the pipeline stage of a contact.
type ContactStatus string

const (
	ContactActive   ContactStatus = "Active"
	ContactLead     ContactStatus = "Lead"
	ContactInactive ContactStatus = "Inactive"
	ContactProspect ContactStatus = "Prospect"
)

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactActive, ContactLead, ContactInactive, ContactProspect:
		return true
	}
	return false
}

// Contact is a customer or lead tracked in the admin dashboard.
type Contact struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Phone     string        `json:"phone" db:"phone"`
	Company   string        `json:"company" db:"company"`
	Status    ContactStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// ContactInput is the admin payload for a contact.
type ContactInput struct {
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Company string        `json:"company"`
	Status  ContactStatus `json:"status"`
}
