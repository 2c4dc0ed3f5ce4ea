// Package services implements the booking, payment and support ticket
// lifecycle engines. Services hold store interfaces rather than
// concrete repositories so the lifecycle rules can be exercised
// against in-memory fakes with a fixed clock; internal/database
// provides the Postgres implementations.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// BookingStore is the persistence surface the booking lifecycle needs.
// Create performs the overlap check and the insert as one atomic step.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, reason *string) error
	CompleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PaymentStore is the persistence surface for settlements and refunds.
// CreateWithConfirm writes the payment and the booking confirmation in
// one transactional unit.
type PaymentStore interface {
	CreateWithConfirm(ctx context.Context, payment *models.Payment) error
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error)
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status models.PaymentStatus) error
	ListAll(ctx context.Context) ([]models.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	Statistics(ctx context.Context) (*models.PaymentStatistics, error)
}

// TicketStore is the persistence surface for support tickets.
type TicketStore interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	GetByID(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error)
	ListAll(ctx context.Context) ([]models.SupportTicket, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.SupportTicket, error)
	Resolve(ctx context.Context, ticketID uuid.UUID, notes string, resolvedAt time.Time) error
	CountOpen(ctx context.Context) (int64, error)
}

// VenueStore is the read surface the core needs from the venue
// directory.
type VenueStore interface {
	GetByID(ctx context.Context, venueID uuid.UUID) (*models.Venue, error)
}
