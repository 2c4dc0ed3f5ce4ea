package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role in the system
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleEventManager Role = "EVENT_MANAGER"
	RoleCustomer     Role = "CUSTOMER"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEventManager, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether the role sees all bookings, payments and
// tickets rather than only its own.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEventManager
}

// User represents an account in the system. The core trusts the id and
// role supplied by the identity layer; password and enabled flag are
// only touched by the auth glue.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Enabled      bool      `json:"enabled" db:"enabled"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents the request to register a new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role,omitempty"`
}

// Validate validates the register request
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return errors.New("username is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Role == "" {
		r.Role = RoleCustomer
	}
	// Admin accounts are provisioned out of band, never self-registered.
	if r.Role != RoleCustomer && r.Role != RoleEventManager {
		return errors.New("role must be CUSTOMER or EVENT_MANAGER")
	}
	return nil
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
