package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, user_id, venue_id, event_date, end_date, event_type,
	status, cancellation_reason, created_at, updated_at`

// Create persists a new booking after re-checking the date-range
// exclusivity rule inside a SERIALIZABLE transaction, so two
// concurrent creators for the same venue and overlapping range cannot
// both pass the check. Returns models.ErrConflict when an active
// booking overlaps and models.ErrSerialization when the transaction
// aborts under contention.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	return WithSerializableTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var overlapping int
		err := tx.GetContext(ctx, &overlapping, `
			SELECT COUNT(*)
			FROM bookings
			WHERE venue_id = $1
			  AND status != 'CANCELLED'
			  AND event_date <= $3
			  AND end_date >= $2
		`, booking.VenueID, booking.EventDate, booking.EndDate)
		if err != nil {
			return fmt.Errorf("failed to check booking conflicts: %w", err)
		}
		if overlapping > 0 {
			return fmt.Errorf("venue already booked for the selected date range: %w", models.ErrConflict)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO bookings (
				id, user_id, venue_id, event_date, end_date, event_type, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`, booking.ID, booking.UserID, booking.VenueID,
			booking.EventDate, booking.EndDate, booking.EventType, booking.Status,
		).Scan(&booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.db.GetContext(ctx, booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListAll retrieves all bookings, newest first
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListByUser retrieves all bookings created by a user, newest first
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user: %w", err)
	}
	return bookings, nil
}

// UpdateStatus updates the booking status and, for cancellations, the
// cancellation reason.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, reason *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2,
			cancellation_reason = COALESCE($3, cancellation_reason),
			updated_at = NOW()
		WHERE id = $1
	`, bookingID, status, reason)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
	}
	return nil
}

// CompleteExpired transitions every booking that is neither cancelled
// nor completed and whose end date lies before the given date to
// COMPLETED. Idempotent; returns the number of bookings swept.
func (r *BookingRepository) CompleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'COMPLETED', updated_at = NOW()
		WHERE status NOT IN ('CANCELLED', 'COMPLETED')
		  AND end_date < $1
	`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to complete expired bookings: %w", err)
	}
	return result.RowsAffected()
}
