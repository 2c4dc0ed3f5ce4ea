package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// TicketService owns support ticket creation, listing and role-gated
// resolution.
type TicketService struct {
	tickets TicketStore
	clock   Clock
	logger  *logrus.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets TicketStore, clock Clock, logger *logrus.Logger) *TicketService {
	return &TicketService{tickets: tickets, clock: clock, logger: logger}
}

// Create files a new OPEN ticket for the customer.
func (s *TicketService) Create(ctx context.Context, customer models.User, description string) (*models.SupportTicket, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrValidation)
	}

	ticket := &models.SupportTicket{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Description: description,
		Status:      models.TicketStatusOpen,
		CreatedDate: s.clock.Now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":   ticket.ID,
		"customer_id": customer.ID,
	}).Info("Support ticket created")

	return ticket, nil
}

// List returns the tickets visible to the user: staff see all,
// customers only their own.
func (s *TicketService) List(ctx context.Context, user models.User) ([]models.SupportTicket, error) {
	if user.Role.IsStaff() {
		return s.tickets.ListAll(ctx)
	}
	return s.tickets.ListByCustomer(ctx, user.ID)
}

// Resolve closes a ticket with the given notes. Tickets filed by an
// event manager may only be resolved by an admin; tickets from other
// creators may be resolved by admins and managers. Resolution is
// terminal and notes must be non-empty after trimming.
func (s *TicketService) Resolve(ctx context.Context, ticketID uuid.UUID, resolver models.User, notes string) (*models.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !resolver.Role.IsStaff() {
		return nil, fmt.Errorf("only admins and managers resolve tickets: %w", models.ErrUnauthorized)
	}
	if ticket.CustomerRole == models.RoleEventManager && resolver.Role != models.RoleAdmin {
		return nil, fmt.Errorf("tickets filed by managers require an admin: %w", models.ErrUnauthorized)
	}

	if ticket.Status == models.TicketStatusResolved {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, models.ErrAlreadyResolved)
	}

	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, fmt.Errorf("%w: resolution notes are required", models.ErrValidation)
	}

	resolvedAt := s.clock.Now()
	if err := s.tickets.Resolve(ctx, ticketID, notes, resolvedAt); err != nil {
		return nil, err
	}

	ticket.Status = models.TicketStatusResolved
	ticket.ResolvedDate = &resolvedAt
	ticket.ResolutionNotes = &notes

	s.logger.WithFields(logrus.Fields{
		"ticket_id":   ticketID,
		"resolver_id": resolver.ID,
	}).Info("Support ticket resolved")

	return ticket, nil
}

// CountOpen returns the number of open tickets for dashboards.
func (s *TicketService) CountOpen(ctx context.Context) (int64, error) {
	return s.tickets.CountOpen(ctx)
}
