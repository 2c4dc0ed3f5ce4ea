package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentView(t *testing.T) {
	tests := []struct {
		name          string
		status        PaymentStatus
		bookingStatus BookingStatus
		wantDisplay   PaymentStatus
	}{
		{"success on confirmed booking", PaymentStatusSuccess, BookingStatusConfirmed, PaymentStatusSuccess},
		{"success on cancelled booking shows refunded", PaymentStatusSuccess, BookingStatusCancelled, PaymentStatusRefunded},
		{"refunded stays refunded", PaymentStatusRefunded, BookingStatusCancelled, PaymentStatusRefunded},
		{"pending on cancelled booking shows refunded", PaymentStatusPending, BookingStatusCancelled, PaymentStatusRefunded},
		{"success on completed booking", PaymentStatusSuccess, BookingStatusCompleted, PaymentStatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payment{Status: tt.status, BookingStatus: tt.bookingStatus}
			view := p.View()

			assert.Equal(t, tt.wantDisplay, view.DisplayStatus)
			// The persisted status is never rewritten by the view.
			assert.Equal(t, tt.status, view.Status)
		})
	}
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentStatusSuccess.CanTransitionTo(PaymentStatusRefunded))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusSuccess))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusSuccess))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusPending))
}
