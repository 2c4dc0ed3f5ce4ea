package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuepoint/venue-booking-backend/internal/middleware"
	"github.com/venuepoint/venue-booking-backend/internal/models"
	"github.com/venuepoint/venue-booking-backend/internal/services"
)

// PaymentHandler handles payment operations
type PaymentHandler struct {
	payments *services.PaymentService
	bookings *services.BookingService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *services.PaymentService, bookings *services.BookingService) *PaymentHandler {
	return &PaymentHandler{payments: payments, bookings: bookings}
}

// Process settles a booking: the amount is computed server-side and
// the booking is confirmed. Customers may only settle their own
// bookings.
func (h *PaymentHandler) Process(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
		return
	}

	user := userCtx.User()
	if !user.Role.IsStaff() {
		if _, err := h.bookings.Get(c.Request.Context(), user, req.BookingID); err != nil {
			respondError(c, err)
			return
		}
	}

	payment, err := h.payments.Settle(c.Request.Context(), req.BookingID, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment.View()})
}

// List returns the payments visible to the user as display views,
// with cancelled bookings' payments presented as refunded.
func (h *PaymentHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.payments.ListForUser(c.Request.Context(), userCtx.User())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": views})
}

// Statistics returns aggregate payment totals. Staff only, enforced
// by route middleware.
func (h *PaymentHandler) Statistics(c *gin.Context) {
	stats, err := h.payments.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}
