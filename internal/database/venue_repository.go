package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// VenueRepository handles database operations for the venues table
type VenueRepository struct {
	db DB
}

// NewVenueRepository creates a new VenueRepository
func NewVenueRepository(db DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `id, name, location, capacity, price_per_day, status, created_at`

// Create persists a new venue
func (r *VenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO venues (id, name, location, capacity, price_per_day, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, venue.ID, venue.Name, venue.Location, venue.Capacity,
		venue.PricePerDay, venue.Status).Scan(&venue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

// GetByID retrieves a venue by ID. Settlement re-reads the venue here
// so the price is authoritative at settlement time, never cached.
func (r *VenueRepository) GetByID(ctx context.Context, venueID uuid.UUID) (*models.Venue, error) {
	venue := &models.Venue{}
	err := r.db.GetContext(ctx, venue, `
		SELECT `+venueColumns+`
		FROM venues
		WHERE id = $1
	`, venueID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("venue %s: %w", venueID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return venue, nil
}

// ListAll retrieves all venues
func (r *VenueRepository) ListAll(ctx context.Context) ([]models.Venue, error) {
	venues := []models.Venue{}
	err := r.db.SelectContext(ctx, &venues, `
		SELECT `+venueColumns+`
		FROM venues
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

// ListAvailable retrieves venues open for booking
func (r *VenueRepository) ListAvailable(ctx context.Context) ([]models.Venue, error) {
	venues := []models.Venue{}
	err := r.db.SelectContext(ctx, &venues, `
		SELECT `+venueColumns+`
		FROM venues
		WHERE status = 'AVAILABLE'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list available venues: %w", err)
	}
	return venues, nil
}

// Update applies partial updates to a venue
func (r *VenueRepository) Update(ctx context.Context, venueID uuid.UUID, req *models.UpdateVenueRequest) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE venues
		SET name = COALESCE($2, name),
			location = COALESCE($3, location),
			capacity = COALESCE($4, capacity),
			price_per_day = COALESCE($5, price_per_day)
		WHERE id = $1
	`, venueID, req.Name, req.Location, req.Capacity, req.PricePerDay)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("venue %s: %w", venueID, models.ErrNotFound)
	}
	return nil
}

// UpdateStatus sets a venue's availability status
func (r *VenueRepository) UpdateStatus(ctx context.Context, venueID uuid.UUID, status models.VenueStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE venues
		SET status = $2
		WHERE id = $1
	`, venueID, status)
	if err != nil {
		return fmt.Errorf("failed to update venue status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("venue %s: %w", venueID, models.ErrNotFound)
	}
	return nil
}
