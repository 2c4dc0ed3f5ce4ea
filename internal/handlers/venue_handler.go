package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuepoint/venue-booking-backend/internal/database"
	"github.com/venuepoint/venue-booking-backend/internal/middleware"
	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// VenueHandler handles venue directory operations
type VenueHandler struct {
	venues *database.VenueRepository
}

// NewVenueHandler creates a new VenueHandler
func NewVenueHandler(venues *database.VenueRepository) *VenueHandler {
	return &VenueHandler{venues: venues}
}

// List returns venues. Customers only see venues that are available
// for booking; staff see the full directory including venues under
// maintenance.
func (h *VenueHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var (
		venues []models.Venue
		err    error
	)
	if userCtx.Role.IsStaff() {
		venues, err = h.venues.ListAll(c.Request.Context())
	} else {
		venues, err = h.venues.ListAvailable(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

// Get returns a single venue by id.
func (h *VenueHandler) Get(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid venue id"})
		return
	}

	venue, err := h.venues.GetByID(c.Request.Context(), venueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

// Create adds a venue to the directory. Staff only, enforced by
// route middleware.
func (h *VenueHandler) Create(c *gin.Context) {
	var req models.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	venue := &models.Venue{
		ID:          uuid.New(),
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		PricePerDay: req.PricePerDay,
		Status:      models.VenueStatusAvailable,
	}
	if err := h.venues.Create(c.Request.Context(), venue); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"venue": venue})
}

// Update applies a partial update to a venue.
func (h *VenueHandler) Update(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid venue id"})
		return
	}

	var req models.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := h.venues.Update(c.Request.Context(), venueID, &req); err != nil {
		respondError(c, err)
		return
	}

	venue, err := h.venues.GetByID(c.Request.Context(), venueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

// SetStatus toggles a venue between available and maintenance.
// Venues under maintenance are hidden from customers and cannot be
// booked.
func (h *VenueHandler) SetStatus(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid venue id"})
		return
	}

	var req struct {
		Status models.VenueStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}
	if req.Status != models.VenueStatusAvailable && req.Status != models.VenueStatusMaintenance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid venue status"})
		return
	}

	if err := h.venues.UpdateStatus(c.Request.Context(), venueID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	venue, err := h.venues.GetByID(c.Request.Context(), venueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": venue})
}
