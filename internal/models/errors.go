// Package models defines the entities persisted by the venue booking
// backend together with the sentinel errors shared across layers.
// Handlers use errors.Is against these sentinels to pick HTTP status
// codes; repositories and services wrap them with fmt.Errorf("...: %w")
// to add context without losing the classification.
package models

import "errors"

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because of
// existing state, such as a venue already booked for an overlapping
// date range or a status transition outside the allowed table.
var ErrConflict = errors.New("conflict")

// ErrValidation is returned for missing or malformed input, e.g. empty
// resolution notes on a support ticket.
var ErrValidation = errors.New("invalid input")

// ErrUnauthorized is returned when the caller's role does not permit
// the operation, such as a manager resolving another manager's ticket.
var ErrUnauthorized = errors.New("not authorized")

// ErrAlreadyResolved is returned when resolving a ticket that is
// already in its terminal RESOLVED state.
var ErrAlreadyResolved = errors.New("ticket already resolved")

// ErrSerialization is returned when a serializable transaction aborts
// under concurrent writers (SQLSTATE 40001). Callers retry once before
// surfacing the failure as a conflict.
var ErrSerialization = errors.New("serialization failure")
