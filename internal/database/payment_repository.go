package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// PaymentRepository handles database operations for the payments table
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateWithConfirm persists a payment and flips its booking to
// CONFIRMED in a single transaction, so settlement is atomic as a
// unit: both writes land or neither does.
func (r *PaymentRepository) CreateWithConfirm(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO payments (
				id, booking_id, amount, status, payment_method, payment_date
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, payment.ID, payment.BookingID, payment.Amount,
			payment.Status, payment.PaymentMethod, payment.PaymentDate,
		).Scan(&payment.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE bookings
			SET status = 'CONFIRMED', updated_at = NOW()
			WHERE id = $1
		`, payment.BookingID)
		if err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("booking %s: %w", payment.BookingID, models.ErrNotFound)
		}
		return nil
	})
}

// GetByBooking retrieves the payment for a booking
func (r *PaymentRepository) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	err := r.db.GetContext(ctx, payment, `
		SELECT id, booking_id, amount, status, payment_method, payment_date, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment for booking %s: %w", bookingID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// UpdateStatus updates a payment's status
func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2
		WHERE id = $1
	`, paymentID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("payment %s: %w", paymentID, models.ErrNotFound)
	}
	return nil
}

const paymentWithBookingColumns = `
	p.id, p.booking_id, p.amount, p.status, p.payment_method,
	p.payment_date, p.created_at, b.status AS booking_status`

// ListAll retrieves all payments joined with their booking status,
// newest first
func (r *PaymentRepository) ListAll(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentWithBookingColumns+`
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListByUser retrieves the payments for bookings created by a user,
// newest first
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentWithBookingColumns+`
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.user_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for user: %w", err)
	}
	return payments, nil
}

// Statistics aggregates payment totals per status. COALESCE keeps the
// sums at zero when no rows match.
func (r *PaymentRepository) Statistics(ctx context.Context) (*models.PaymentStatistics, error) {
	stats := &models.PaymentStatistics{}
	err := r.db.GetContext(ctx, stats, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'SUCCESS'), 0)  AS total_earnings,
			COUNT(*) FILTER (WHERE status = 'SUCCESS')                  AS success_count,
			COUNT(*) FILTER (WHERE status = 'PENDING')                  AS pending_count,
			COUNT(*) FILTER (WHERE status = 'REFUNDED')                 AS refunded_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'REFUNDED'), 0) AS total_refunded
		FROM payments
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment statistics: %w", err)
	}
	return stats, nil
}
