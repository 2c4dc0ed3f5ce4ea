package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// bookingTransitions is the closed transition table for bookings.
// PENDING may complete without confirmation when the expiry sweep
// finds an unsettled booking whose end date has passed.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

// CanTransitionTo reports whether the transition table allows moving
// from the current status to the target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Booking represents a venue reservation for an inclusive date range.
// EventDate and EndDate are calendar dates stored at UTC midnight;
// EndDate is always on or after EventDate.
type Booking struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	UserID             uuid.UUID     `json:"user_id" db:"user_id"`
	VenueID            uuid.UUID     `json:"venue_id" db:"venue_id"`
	EventDate          time.Time     `json:"event_date" db:"event_date"`
	EndDate            time.Time     `json:"end_date" db:"end_date"`
	EventType          string        `json:"event_type" db:"event_type"`
	Status             BookingStatus `json:"status" db:"status"`
	CancellationReason *string       `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// InclusiveDays returns the number of calendar days spanned by the
// booking counting both endpoints; a same-day booking is one day.
func (b *Booking) InclusiveDays() int {
	return int(b.EndDate.Sub(b.EventDate)/(24*time.Hour)) + 1
}

// RangesOverlap reports whether two inclusive date ranges overlap:
// aStart <= bEnd AND aEnd >= bStart.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// DateOnly truncates a time to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BookingDateLayout is the wire format for booking dates.
const BookingDateLayout = "2006-01-02"

// CreateBookingRequest represents the request to create a booking.
// Dates are calendar dates in YYYY-MM-DD form; both are optional and
// default per Dates.
type CreateBookingRequest struct {
	VenueID   uuid.UUID `json:"venue_id" binding:"required"`
	EventDate string    `json:"event_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	EventType string    `json:"event_type,omitempty"`
}

// Dates resolves the requested date range against the current date:
// a missing event date defaults to today, and a missing or earlier
// end date is clamped to the event date.
func (r *CreateBookingRequest) Dates(now time.Time) (eventDate, endDate time.Time, err error) {
	eventDate = DateOnly(now)
	if r.EventDate != "" {
		eventDate, err = time.ParseInLocation(BookingDateLayout, r.EventDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid event_date %q: expected YYYY-MM-DD", r.EventDate)
		}
	}
	endDate = eventDate
	if r.EndDate != "" {
		endDate, err = time.ParseInLocation(BookingDateLayout, r.EndDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", r.EndDate)
		}
		if endDate.Before(eventDate) {
			endDate = eventDate
		}
	}
	return eventDate, endDate, nil
}

// ChangeBookingStatusRequest represents the request to cancel or
// complete a booking.
type ChangeBookingStatusRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ParseBookingStatusTarget validates a requested target status. Only
// CANCELLED and COMPLETED are reachable through the status endpoint;
// CONFIRMED comes from settlement alone.
func ParseBookingStatusTarget(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusCancelled:
		return BookingStatusCancelled, nil
	case BookingStatusCompleted:
		return BookingStatusCompleted, nil
	}
	return "", errors.New("target status must be CANCELLED or COMPLETED")
}
