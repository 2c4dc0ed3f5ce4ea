package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// CanTransitionTo reports whether the payment transition table allows
// the move. REFUNDED is reachable only from SUCCESS, via the refund
// cascade on booking cancellation.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusSuccess
	case PaymentStatusSuccess:
		return target == PaymentStatusRefunded
	}
	return false
}

// Payment represents a settled payment for a booking. Amount is always
// computed server-side from the venue's daily price and the booking's
// inclusive day count, never taken from the client.
type Payment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	BookingID     uuid.UUID     `json:"booking_id" db:"booking_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	PaymentDate   time.Time     `json:"payment_date" db:"payment_date"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	// BookingStatus is populated on reads that join the booking, for
	// the display-time refund normalization. Never written back.
	BookingStatus BookingStatus `json:"-" db:"booking_status"`
}

// PaymentView is the read model returned to callers. DisplayStatus
// presents a payment on a cancelled booking as REFUNDED even before
// the refund write has landed; the persisted record is only corrected
// by an explicit refund.
type PaymentView struct {
	Payment
	DisplayStatus PaymentStatus `json:"display_status"`
}

// View derives the display form of the payment.
func (p Payment) View() PaymentView {
	display := p.Status
	if p.BookingStatus == BookingStatusCancelled && p.Status != PaymentStatusRefunded {
		display = PaymentStatusRefunded
	}
	return PaymentView{Payment: p, DisplayStatus: display}
}

// PaymentStatistics aggregates payment totals for the admin dashboard.
// Sums over empty sets report zero, not null.
type PaymentStatistics struct {
	TotalEarnings float64 `json:"total_earnings" db:"total_earnings"`
	SuccessCount  int64   `json:"success_count" db:"success_count"`
	PendingCount  int64   `json:"pending_count" db:"pending_count"`
	RefundedCount int64   `json:"refunded_count" db:"refunded_count"`
	TotalRefunded float64 `json:"total_refunded" db:"total_refunded"`
}

// SettlePaymentRequest represents the request to settle a booking.
// Any client-supplied amount is ignored.
type SettlePaymentRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
}
