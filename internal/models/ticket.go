package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the status of a support ticket
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusResolved TicketStatus = "RESOLVED"
)

// SupportTicket represents a customer support ticket. RESOLVED is
// terminal; ResolutionNotes is non-empty whenever the ticket is
// resolved.
type SupportTicket struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	CustomerID      uuid.UUID    `json:"customer_id" db:"customer_id"`
	Description     string       `json:"description" db:"description"`
	Status          TicketStatus `json:"status" db:"status"`
	CreatedDate     time.Time    `json:"created_date" db:"created_date"`
	ResolvedDate    *time.Time   `json:"resolved_date,omitempty" db:"resolved_date"`
	ResolutionNotes *string      `json:"resolution_notes,omitempty" db:"resolution_notes"`

	// CustomerRole is populated on reads that join the creator, for
	// the resolution authorization check.
	CustomerRole Role `json:"-" db:"customer_role"`
}

// CreateTicketRequest represents the request to file a support ticket
type CreateTicketRequest struct {
	Description string `json:"description" binding:"required"`
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return errors.New("description is required")
	}
	return nil
}

// ResolveTicketRequest represents the request to resolve a ticket
type ResolveTicketRequest struct {
	ResolutionNotes string `json:"resolution_notes"`
}
