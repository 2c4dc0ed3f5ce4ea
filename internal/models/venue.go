package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VenueStatus represents the availability status of a venue
type VenueStatus string

const (
	VenueStatusAvailable   VenueStatus = "AVAILABLE"
	VenueStatusMaintenance VenueStatus = "MAINTENANCE"
)

// Valid reports whether the status is a known venue status.
func (s VenueStatus) Valid() bool {
	return s == VenueStatusAvailable || s == VenueStatusMaintenance
}

// Venue represents a bookable venue. The booking core only reads
// venues; writes come through the venue management handlers.
type Venue struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Location    string      `json:"location" db:"location"`
	Capacity    int         `json:"capacity" db:"capacity"`
	PricePerDay float64     `json:"price_per_day" db:"price_per_day"`
	Status      VenueStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// CreateVenueRequest represents the request to create a venue
type CreateVenueRequest struct {
	Name        string  `json:"name" binding:"required"`
	Location    string  `json:"location"`
	Capacity    int     `json:"capacity"`
	PricePerDay float64 `json:"price_per_day"`
}

// Validate validates the create venue request
func (r *CreateVenueRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
	}
	if r.PricePerDay < 0 {
		return fmt.Errorf("%w: price_per_day cannot be negative", ErrValidation)
	}
	return nil
}

// UpdateVenueRequest represents the request to update a venue
type UpdateVenueRequest struct {
	Name        *string  `json:"name,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	PricePerDay *float64 `json:"price_per_day,omitempty"`
}

// Validate validates the update venue request
func (r *UpdateVenueRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		r.Name = &trimmed
	}
	if r.Capacity != nil && *r.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
	}
	if r.PricePerDay != nil && *r.PricePerDay < 0 {
		return fmt.Errorf("%w: price_per_day cannot be negative", ErrValidation)
	}
	return nil
}
