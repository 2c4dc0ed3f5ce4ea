package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuepoint/venue-booking-backend/internal/database"
	"github.com/venuepoint/venue-booking-backend/internal/middleware"
	"github.com/venuepoint/venue-booking-backend/internal/models"
	"github.com/venuepoint/venue-booking-backend/internal/services"
)

// DashboardHandler aggregates admin overview data
type DashboardHandler struct {
	bookings *services.BookingService
	payments *services.PaymentService
	tickets  *services.TicketService
	users    *database.UserRepository
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(bookings *services.BookingService, payments *services.PaymentService, tickets *services.TicketService, users *database.UserRepository) *DashboardHandler {
	return &DashboardHandler{bookings: bookings, payments: payments, tickets: tickets, users: users}
}

// Overview returns the admin dashboard snapshot: booking counts by
// status, payment totals, open ticket count and managers awaiting
// approval. Listing bookings here also folds in the expiry sweep, so
// the counts reflect bookings whose end date has passed.
func (h *DashboardHandler) Overview(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx := c.Request.Context()

	bookings, err := h.bookings.List(ctx, userCtx.User())
	if err != nil {
		respondError(c, err)
		return
	}
	byStatus := map[models.BookingStatus]int{}
	for _, b := range bookings {
		byStatus[b.Status]++
	}

	stats, err := h.payments.Statistics(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	openTickets, err := h.tickets.CountOpen(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	pending, err := h.users.ListPendingManagers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": gin.H{
			"total":     len(bookings),
			"pending":   byStatus[models.BookingStatusPending],
			"confirmed": byStatus[models.BookingStatusConfirmed],
			"completed": byStatus[models.BookingStatusCompleted],
			"cancelled": byStatus[models.BookingStatusCancelled],
		},
		"payments":         stats,
		"open_tickets":     openTickets,
		"pending_managers": pending,
	})
}

// ApproveManager enables an event manager account that registered
// but has not yet been approved.
func (h *DashboardHandler) ApproveManager(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid user id"})
		return
	}

	if err := h.users.Enable(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
