package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/venuepoint/venue-booking-backend/internal/events"
	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// BookingService owns booking creation, listing with the lazy
// auto-completion sweep, and status transitions including the refund
// cascade on cancellation.
type BookingService struct {
	bookings  BookingStore
	venues    VenueStore
	payments  *PaymentService
	publisher events.Publisher
	clock     Clock
	logger    *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookings BookingStore,
	venues VenueStore,
	payments *PaymentService,
	publisher events.Publisher,
	clock Clock,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		venues:    venues,
		payments:  payments,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// StatusChangeResult reports the side effects of a status change. The
// refund cascade on cancellation is best-effort: a failure is recorded
// here and logged, never returned as an error, so cancellation always
// succeeds once the booking exists and the transition is legal.
type StatusChangeResult struct {
	RefundAttempted bool `json:"refund_attempted"`
	Refunded        bool `json:"refunded"`
	RefundFailed    bool `json:"refund_failed"`
}

// Create validates the requested date range, checks the venue, and
// persists a PENDING booking. The date-range exclusivity rule runs
// inside the store's serializable transaction; a serialization abort
// is retried once and then surfaced as a conflict.
func (s *BookingService) Create(ctx context.Context, user models.User, req *models.CreateBookingRequest) (*models.Booking, error) {
	eventDate, endDate, err := req.Dates(s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	venue, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.Status == models.VenueStatusMaintenance {
		return nil, fmt.Errorf("%w: venue %q is under maintenance", models.ErrValidation, venue.Name)
	}

	booking := &models.Booking{
		ID:        uuid.New(),
		UserID:    user.ID,
		VenueID:   venue.ID,
		EventDate: eventDate,
		EndDate:   endDate,
		EventType: req.EventType,
		Status:    models.BookingStatusPending,
	}

	err = s.bookings.Create(ctx, booking)
	if errors.Is(err, models.ErrSerialization) {
		s.logger.WithFields(logrus.Fields{
			"venue_id":   venue.ID,
			"event_date": eventDate.Format(models.BookingDateLayout),
		}).Warn("Booking create aborted by concurrent writer, retrying")
		err = s.bookings.Create(ctx, booking)
		if errors.Is(err, models.ErrSerialization) {
			return nil, fmt.Errorf("venue contended by a concurrent booking: %w", models.ErrConflict)
		}
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingCreated, booking)

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"venue_id":   venue.ID,
		"user_id":    user.ID,
		"event_date": eventDate.Format(models.BookingDateLayout),
		"end_date":   endDate.Format(models.BookingDateLayout),
	}).Info("Booking created")

	return booking, nil
}

// List returns the bookings visible to the user: staff see all,
// customers only their own. Before reading, it runs the reconcile
// sweep so expired bookings come back COMPLETED. The status rewrite on
// a read is deliberate lazy expiry, carried over from the listing
// behavior this replaces.
func (s *BookingService) List(ctx context.Context, user models.User) ([]models.Booking, error) {
	if _, err := s.Reconcile(ctx, s.clock.Now()); err != nil {
		return nil, err
	}

	if user.Role.IsStaff() {
		return s.bookings.ListAll(ctx)
	}
	return s.bookings.ListByUser(ctx, user.ID)
}

// Reconcile transitions every booking that is neither cancelled nor
// completed and whose end date lies before now's calendar date to
// COMPLETED. Idempotent; no refund is implied.
func (s *BookingService) Reconcile(ctx context.Context, now time.Time) (int64, error) {
	swept, err := s.bookings.CompleteExpired(ctx, models.DateOnly(now))
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.logger.WithField("count", swept).Info("Auto-completed expired bookings")
	}
	return swept, nil
}

// Get returns a single booking. Customers may only read their own.
func (s *BookingService) Get(ctx context.Context, user models.User, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !user.Role.IsStaff() && booking.UserID != user.ID {
		return nil, fmt.Errorf("booking belongs to another user: %w", models.ErrUnauthorized)
	}
	return booking, nil
}

// ChangeStatus moves a booking to CANCELLED or COMPLETED. Transitions
// outside the table are rejected with a conflict. A fresh cancellation
// cascades into a best-effort refund of the booking's payment.
func (s *BookingService) ChangeStatus(ctx context.Context, bookingID uuid.UUID, target models.BookingStatus, reason *string) (*models.Booking, StatusChangeResult, error) {
	var result StatusChangeResult

	if target != models.BookingStatusCancelled && target != models.BookingStatusCompleted {
		return nil, result, fmt.Errorf("%w: target status must be CANCELLED or COMPLETED", models.ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, result, err
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, result, fmt.Errorf("booking is %s, cannot move to %s: %w", booking.Status, target, models.ErrConflict)
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, target, reason); err != nil {
		return nil, result, err
	}
	booking.Status = target
	if reason != nil {
		booking.CancellationReason = reason
	}

	routingKey := events.BookingCompleted
	if target == models.BookingStatusCancelled {
		routingKey = events.BookingCancelled
		result.RefundAttempted = true
		refunded, refundErr := s.payments.Refund(ctx, bookingID)
		if refundErr != nil {
			// Cancellation is the higher-priority guarantee: a refund
			// failure is logged and reported as a soft flag, never
			// propagated.
			result.RefundFailed = true
			s.logger.WithFields(logrus.Fields{
				"booking_id": bookingID,
				"error":      refundErr.Error(),
			}).Error("Refund failed during booking cancellation")
		} else {
			result.Refunded = refunded
		}
	}

	s.publish(ctx, routingKey, booking)

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"status":     target,
	}).Info("Booking status changed")

	return booking, result, nil
}

func (s *BookingService) publish(ctx context.Context, routingKey string, booking *models.Booking) {
	if err := s.publisher.PublishBooking(ctx, routingKey, booking); err != nil {
		s.logger.WithFields(logrus.Fields{
			"booking_id":  booking.ID,
			"routing_key": routingKey,
		}).WithError(err).Warn("Failed to publish booking event")
	}
}
