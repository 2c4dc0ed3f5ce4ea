package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// In-memory stores backing the lifecycle tests. They mirror the
// Postgres repositories' contracts: Create runs the overlap check,
// CreateWithConfirm flips the booking to CONFIRMED, list order is
// newest first.

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func mustDate(s string) time.Time {
	t, err := time.ParseInLocation(models.BookingDateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeVenueStore struct {
	venues map[uuid.UUID]*models.Venue
}

func newFakeVenueStore() *fakeVenueStore {
	return &fakeVenueStore{venues: make(map[uuid.UUID]*models.Venue)}
}

func (s *fakeVenueStore) add(name string, pricePerDay float64, status models.VenueStatus) *models.Venue {
	venue := &models.Venue{
		ID:          uuid.New(),
		Name:        name,
		Location:    "Colombo",
		Capacity:    200,
		PricePerDay: pricePerDay,
		Status:      status,
	}
	s.venues[venue.ID] = venue
	return venue
}

func (s *fakeVenueStore) GetByID(_ context.Context, venueID uuid.UUID) (*models.Venue, error) {
	venue, ok := s.venues[venueID]
	if !ok {
		return nil, fmt.Errorf("venue %s: %w", venueID, models.ErrNotFound)
	}
	copied := *venue
	return &copied, nil
}

type fakeBookingStore struct {
	bookings   map[uuid.UUID]*models.Booking
	order      []uuid.UUID
	createErrs []error
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (s *fakeBookingStore) Create(_ context.Context, booking *models.Booking) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range s.bookings {
		if existing.VenueID != booking.VenueID || existing.Status == models.BookingStatusCancelled {
			continue
		}
		if models.RangesOverlap(booking.EventDate, booking.EndDate, existing.EventDate, existing.EndDate) {
			return fmt.Errorf("venue already booked for the requested dates: %w", models.ErrConflict)
		}
	}
	copied := *booking
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	s.bookings[copied.ID] = &copied
	s.order = append(s.order, copied.ID)
	booking.CreatedAt = copied.CreatedAt
	booking.UpdatedAt = copied.UpdatedAt
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, ok := s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	copied := *booking
	return &copied, nil
}

func (s *fakeBookingStore) ListAll(_ context.Context) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.bookings[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeBookingStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	all, _ := s.ListAll(ctx)
	out := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, bookingID uuid.UUID, status models.BookingStatus, reason *string) error {
	booking, ok := s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	booking.Status = status
	if reason != nil {
		booking.CancellationReason = reason
	}
	booking.UpdatedAt = time.Now()
	return nil
}

func (s *fakeBookingStore) CompleteExpired(_ context.Context, before time.Time) (int64, error) {
	var swept int64
	for _, booking := range s.bookings {
		if booking.Status == models.BookingStatusCancelled || booking.Status == models.BookingStatusCompleted {
			continue
		}
		if booking.EndDate.Before(before) {
			booking.Status = models.BookingStatusCompleted
			swept++
		}
	}
	return swept, nil
}

type fakePaymentStore struct {
	bookings  *fakeBookingStore
	payments  map[uuid.UUID]*models.Payment
	order     []uuid.UUID
	getErr    error
	updateErr error
	createErr error
}

func newFakePaymentStore(bookings *fakeBookingStore) *fakePaymentStore {
	return &fakePaymentStore{bookings: bookings, payments: make(map[uuid.UUID]*models.Payment)}
}

func (s *fakePaymentStore) CreateWithConfirm(_ context.Context, payment *models.Payment) error {
	if s.createErr != nil {
		return s.createErr
	}
	booking, ok := s.bookings.bookings[payment.BookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", payment.BookingID, models.ErrNotFound)
	}
	booking.Status = models.BookingStatusConfirmed
	copied := *payment
	copied.CreatedAt = time.Now()
	s.payments[copied.ID] = &copied
	s.order = append(s.order, copied.ID)
	return nil
}

func (s *fakePaymentStore) GetByBooking(_ context.Context, bookingID uuid.UUID) (*models.Payment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := len(s.order) - 1; i >= 0; i-- {
		payment := s.payments[s.order[i]]
		if payment.BookingID == bookingID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("payment for booking %s: %w", bookingID, models.ErrNotFound)
}

func (s *fakePaymentStore) UpdateStatus(_ context.Context, paymentID uuid.UUID, status models.PaymentStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	payment, ok := s.payments[paymentID]
	if !ok {
		return fmt.Errorf("payment %s: %w", paymentID, models.ErrNotFound)
	}
	payment.Status = status
	return nil
}

func (s *fakePaymentStore) ListAll(_ context.Context) ([]models.Payment, error) {
	out := make([]models.Payment, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		payment := *s.payments[s.order[i]]
		if booking, ok := s.bookings.bookings[payment.BookingID]; ok {
			payment.BookingStatus = booking.Status
		}
		out = append(out, payment)
	}
	return out, nil
}

func (s *fakePaymentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	all, _ := s.ListAll(ctx)
	out := make([]models.Payment, 0, len(all))
	for _, p := range all {
		if booking, ok := s.bookings.bookings[p.BookingID]; ok && booking.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePaymentStore) Statistics(_ context.Context) (*models.PaymentStatistics, error) {
	stats := &models.PaymentStatistics{}
	for _, payment := range s.payments {
		switch payment.Status {
		case models.PaymentStatusSuccess:
			stats.SuccessCount++
			stats.TotalEarnings += payment.Amount
		case models.PaymentStatusPending:
			stats.PendingCount++
		case models.PaymentStatusRefunded:
			stats.RefundedCount++
			stats.TotalRefunded += payment.Amount
		}
	}
	return stats, nil
}

type fakeTicketStore struct {
	tickets map[uuid.UUID]*models.SupportTicket
	order   []uuid.UUID
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[uuid.UUID]*models.SupportTicket)}
}

func (s *fakeTicketStore) Create(_ context.Context, ticket *models.SupportTicket) error {
	copied := *ticket
	s.tickets[copied.ID] = &copied
	s.order = append(s.order, copied.ID)
	return nil
}

func (s *fakeTicketStore) GetByID(_ context.Context, ticketID uuid.UUID) (*models.SupportTicket, error) {
	ticket, ok := s.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, models.ErrNotFound)
	}
	copied := *ticket
	return &copied, nil
}

func (s *fakeTicketStore) ListAll(_ context.Context) ([]models.SupportTicket, error) {
	out := make([]models.SupportTicket, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.tickets[s.order[i]])
	}
	return out, nil
}

func (s *fakeTicketStore) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.SupportTicket, error) {
	all, _ := s.ListAll(ctx)
	out := make([]models.SupportTicket, 0, len(all))
	for _, t := range all {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) Resolve(_ context.Context, ticketID uuid.UUID, notes string, resolvedAt time.Time) error {
	ticket, ok := s.tickets[ticketID]
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticketID, models.ErrNotFound)
	}
	ticket.Status = models.TicketStatusResolved
	ticket.ResolutionNotes = &notes
	ticket.ResolvedDate = &resolvedAt
	return nil
}

func (s *fakeTicketStore) CountOpen(_ context.Context) (int64, error) {
	var open int64
	for _, ticket := range s.tickets {
		if ticket.Status == models.TicketStatusOpen {
			open++
		}
	}
	return open, nil
}

type recordingPublisher struct {
	routingKeys []string
}

func (p *recordingPublisher) PublishBooking(_ context.Context, routingKey string, _ *models.Booking) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
