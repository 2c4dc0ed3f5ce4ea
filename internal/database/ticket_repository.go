package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// TicketRepository handles database operations for the support_tickets table
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create persists a new support ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO support_tickets (
			id, customer_id, description, status, created_date
		) VALUES ($1, $2, $3, $4, $5)
	`, ticket.ID, ticket.CustomerID, ticket.Description, ticket.Status, ticket.CreatedDate)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

const ticketColumns = `
	t.id, t.customer_id, t.description, t.status,
	t.created_date, t.resolved_date, t.resolution_notes`

// GetByID retrieves a ticket together with the creator's role, which
// the resolution authorization rule needs.
func (r *TicketRepository) GetByID(ctx context.Context, ticketID uuid.UUID) (*models.SupportTicket, error) {
	ticket := &models.SupportTicket{}
	err := r.db.GetContext(ctx, ticket, `
		SELECT `+ticketColumns+`, u.role AS customer_role
		FROM support_tickets t
		JOIN users u ON u.id = t.customer_id
		WHERE t.id = $1
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// ListAll retrieves all tickets, newest first
func (r *TicketRepository) ListAll(ctx context.Context) ([]models.SupportTicket, error) {
	tickets := []models.SupportTicket{}
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT `+ticketColumns+`
		FROM support_tickets t
		ORDER BY t.created_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// ListByCustomer retrieves the tickets filed by a customer, newest first
func (r *TicketRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.SupportTicket, error) {
	tickets := []models.SupportTicket{}
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT `+ticketColumns+`
		FROM support_tickets t
		WHERE t.customer_id = $1
		ORDER BY t.created_date DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for customer: %w", err)
	}
	return tickets, nil
}

// Resolve marks a ticket resolved with the given notes and timestamp
func (r *TicketRepository) Resolve(ctx context.Context, ticketID uuid.UUID, notes string, resolvedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE support_tickets
		SET status = 'RESOLVED', resolution_notes = $2, resolved_date = $3
		WHERE id = $1
	`, ticketID, notes, resolvedAt)
	if err != nil {
		return fmt.Errorf("failed to resolve ticket: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("ticket %s: %w", ticketID, models.ErrNotFound)
	}
	return nil
}

// CountOpen returns the number of tickets still open
func (r *TicketRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM support_tickets
		WHERE status = 'OPEN'
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return count, nil
}
