package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

func TestPaymentCreateWithConfirm(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPaymentRepository(db)

	payment := &models.Payment{
		ID:          uuid.New(),
		BookingID:   uuid.New(),
		Amount:      300,
		Status:      models.PaymentStatusSuccess,
		PaymentDate: time.Now(),
	}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(payment.ID, payment.BookingID, payment.Amount,
				payment.Status, payment.PaymentMethod, payment.PaymentDate).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(`UPDATE bookings\s+SET status = 'CONFIRMED'`).
			WithArgs(payment.BookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithConfirm(context.Background(), payment)
		require.NoError(t, err)
		assert.Equal(t, now, payment.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking Rolls Back", func(t *testing.T) {
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(payment.ID, payment.BookingID, payment.Amount,
				payment.Status, payment.PaymentMethod, payment.PaymentDate).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectExec(`UPDATE bookings\s+SET status = 'CONFIRMED'`).
			WithArgs(payment.BookingID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateWithConfirm(context.Background(), payment)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Error Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(payment.ID, payment.BookingID, payment.Amount,
				payment.Status, payment.PaymentMethod, payment.PaymentDate).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		err := repo.CreateWithConfirm(context.Background(), payment)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create payment")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentGetByBooking(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPaymentRepository(db)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New()
		paymentID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM payments\s+WHERE booking_id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "booking_id", "amount", "status", "payment_method", "payment_date", "created_at",
			}).AddRow(paymentID, bookingID, 300.0, "SUCCESS", nil, now, now))

		payment, err := repo.GetByBooking(context.Background(), bookingID)
		require.NoError(t, err)
		assert.Equal(t, paymentID, payment.ID)
		assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
		assert.Equal(t, 300.0, payment.Amount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM payments\s+WHERE booking_id`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		payment, err := repo.GetByBooking(context.Background(), bookingID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Nil(t, payment)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentListAll(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPaymentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM payments p\s+JOIN bookings b`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "booking_id", "amount", "status", "payment_method",
			"payment_date", "created_at", "booking_status",
		}).
			AddRow(uuid.New(), uuid.New(), 300.0, "SUCCESS", nil, now, now, "CANCELLED").
			AddRow(uuid.New(), uuid.New(), 150.0, "SUCCESS", nil, now, now, "CONFIRMED"))

	payments, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 2)

	// A cancelled booking's payment displays as refunded even while the
	// stored status is still SUCCESS.
	assert.Equal(t, models.PaymentStatusRefunded, payments[0].View().DisplayStatus)
	assert.Equal(t, models.PaymentStatusSuccess, payments[0].Status)
	assert.Equal(t, models.PaymentStatusSuccess, payments[1].View().DisplayStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentStatistics(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPaymentRepository(db)

	t.Run("Aggregates", func(t *testing.T) {
		mock.ExpectQuery(`SELECT\s+COALESCE\(SUM\(amount\) FILTER`).
			WillReturnRows(sqlmock.NewRows([]string{
				"total_earnings", "success_count", "pending_count", "refunded_count", "total_refunded",
			}).AddRow(1200.0, 4, 1, 2, 350.0))

		stats, err := repo.Statistics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1200.0, stats.TotalEarnings)
		assert.Equal(t, int64(4), stats.SuccessCount)
		assert.Equal(t, int64(1), stats.PendingCount)
		assert.Equal(t, int64(2), stats.RefundedCount)
		assert.Equal(t, 350.0, stats.TotalRefunded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Table Yields Zeros", func(t *testing.T) {
		mock.ExpectQuery(`SELECT\s+COALESCE\(SUM\(amount\) FILTER`).
			WillReturnRows(sqlmock.NewRows([]string{
				"total_earnings", "success_count", "pending_count", "refunded_count", "total_refunded",
			}).AddRow(0.0, 0, 0, 0, 0.0))

		stats, err := repo.Statistics(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalEarnings)
		assert.Zero(t, stats.SuccessCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
