package handlers

import (
	"errors"
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/services/payment"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Engine booking.LifecycleEngine
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(engine booking.LifecycleEngine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var in booking.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Engine.CreateBooking(c.Request.Context(), principal.ID, in)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Booking request created. Please complete the deposit payment.",
		"booking":            result.Booking,
		"paymentClientToken": result.PaymentClientToken,
	})
}

// UpdateBookingStatus handles PUT /api/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var in struct {
		TargetStatus models.BookingStatus `json:"targetStatus"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Engine.Transition(c.Request.Context(), principal, c.Param("id"), in.TargetStatus)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

// CancelBooking handles PUT /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	updated, err := h.Engine.Cancel(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": updated})
}

// GetMyBookings handles GET /api/bookings/mine.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	bookings, err := h.Engine.ListMyBookings(c.Request.Context(), principal.ID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation), errors.Is(err, payment.ErrInvalidAmount):
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
	case errors.Is(err, booking.ErrServiceNotFound):
		utils.JSONError(c, http.StatusNotFound, "service not found", "")
	case errors.Is(err, booking.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
	case errors.Is(err, booking.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "you are not a party to this booking", "")
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.JSONError(c, http.StatusBadRequest, "invalid status transition", err.Error())
	case errors.Is(err, payment.ErrGatewayUnavailable):
		utils.JSONError(c, http.StatusBadGateway, "payment provider unavailable", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}
