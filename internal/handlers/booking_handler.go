package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuepoint/venue-booking-backend/internal/middleware"
	"github.com/venuepoint/venue-booking-backend/internal/models"
	"github.com/venuepoint/venue-booking-backend/internal/services"
)

// BookingHandler handles booking operations
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create creates a new booking for the authenticated user
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), userCtx.User(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// List returns the bookings visible to the authenticated user. The
// expiry sweep runs as part of the listing, so statuses reflect the
// current date.
func (h *BookingHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookings, err := h.bookings.List(c.Request.Context(), userCtx.User())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get returns a single booking
func (h *BookingHandler) Get(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid booking id"})
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), userCtx.User(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Cancel cancels a booking. Customers may cancel their own bookings;
// staff may cancel any. A successful payment on the booking is
// refunded best-effort.
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.changeStatus(c, models.BookingStatusCancelled, true)
}

// Complete marks a booking completed. Staff only, enforced by route
// middleware.
func (h *BookingHandler) Complete(c *gin.Context) {
	h.changeStatus(c, models.BookingStatusCompleted, false)
}

func (h *BookingHandler) changeStatus(c *gin.Context, target models.BookingStatus, ownerAllowed bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid booking id"})
		return
	}

	var req models.ChangeBookingStatusRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
			return
		}
	}

	user := userCtx.User()
	if !user.Role.IsStaff() {
		if !ownerAllowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		// Ownership check before a customer-initiated cancellation.
		if _, err := h.bookings.Get(c.Request.Context(), user, bookingID); err != nil {
			respondError(c, err)
			return
		}
	}

	booking, result, err := h.bookings.ChangeStatus(c.Request.Context(), bookingID, target, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "result": result})
}
