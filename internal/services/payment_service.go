package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// PaymentService owns settlement, the refund cascade target, the
// payment read model and aggregate statistics. Settlement is
// deterministic: the amount is computed from the venue's daily price
// and the booking's inclusive day count, and the payment succeeds
// unconditionally. There is no external gateway.
type PaymentService struct {
	payments PaymentStore
	bookings BookingStore
	venues   VenueStore
	clock    Clock
	logger   *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments PaymentStore,
	bookings BookingStore,
	venues VenueStore,
	clock Clock,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		venues:   venues,
		clock:    clock,
		logger:   logger,
	}
}

// Settle computes the amount for a booking server-side, records a
// SUCCESS payment and confirms the booking, both in one transactional
// unit. Only PENDING bookings settle; anything else is a conflict,
// which also closes the double-settlement path. The venue price is
// re-read here so it is authoritative at settlement time.
func (s *PaymentService) Settle(ctx context.Context, bookingID uuid.UUID, paymentMethod *string) (*models.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("booking is %s, only PENDING bookings can be settled: %w", booking.Status, models.ErrConflict)
	}

	venue, err := s.venues.GetByID(ctx, booking.VenueID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		Amount:        venue.PricePerDay * float64(booking.InclusiveDays()),
		Status:        models.PaymentStatusSuccess,
		PaymentMethod: paymentMethod,
		PaymentDate:   s.clock.Now(),
	}

	if err := s.payments.CreateWithConfirm(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"booking_id": booking.ID,
		"amount":     payment.Amount,
		"days":       booking.InclusiveDays(),
	}).Info("Booking settled")

	return payment, nil
}

// Refund marks the booking's payment REFUNDED. It is idempotent: no
// payment, or a payment not in SUCCESS, is a no-op and returns false.
func (s *PaymentService) Refund(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	payment, err := s.payments.GetByBooking(ctx, bookingID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if payment.Status != models.PaymentStatusSuccess {
		return false, nil
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentStatusRefunded); err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"booking_id": bookingID,
		"amount":     payment.Amount,
	}).Info("Payment refunded")

	return true, nil
}

// ListForUser returns the payments visible to the user as display
// views: staff see all, customers only payments on their own bookings.
// A payment whose booking is cancelled but which has not been refunded
// yet is presented as REFUNDED; the persisted record is only corrected
// by an explicit Refund call.
func (s *PaymentService) ListForUser(ctx context.Context, user models.User) ([]models.PaymentView, error) {
	var (
		payments []models.Payment
		err      error
	)
	if user.Role.IsStaff() {
		payments, err = s.payments.ListAll(ctx)
	} else {
		payments, err = s.payments.ListByUser(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	views := make([]models.PaymentView, len(payments))
	for i, p := range payments {
		views[i] = p.View()
	}
	return views, nil
}

// Statistics aggregates payment totals for the dashboard. Sums over
// empty sets are zero, not absent.
func (s *PaymentService) Statistics(ctx context.Context) (*models.PaymentStatistics, error) {
	return s.payments.Statistics(ctx)
}
