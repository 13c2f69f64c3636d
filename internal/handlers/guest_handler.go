package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
)

// GuestHandler handles the guest-facing flows: the check-in wizard,
// reservations, find-my-stay, service requests and self checkout.
type GuestHandler struct {
	lifecycle *services.LifecycleService
	requests  *services.RequestService
	logger    *logrus.Logger
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(lifecycle *services.LifecycleService, requests *services.RequestService, logger *logrus.Logger) *GuestHandler {
	return &GuestHandler{
		lifecycle: lifecycle,
		requests:  requests,
		logger:    logger,
	}
}

// CheckIn handles POST /api/v1/check-in (the self check-in wizard)
func (h *GuestHandler) CheckIn(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": err.Error(),
		})
		return
	}

	guest, err := h.lifecycle.CheckInNew(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Check-in complete. Welcome to SwiftStay!",
		"guest":   guest,
	})
}

// CreateReservation handles POST /api/v1/reservations
func (h *GuestHandler) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": err.Error(),
		})
		return
	}

	reservation, err := h.lifecycle.CreateReservation(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation confirmed",
		"reservation": reservation,
	})
}

// FindStay handles GET /api/v1/stays/:booking. The path segment is a
// booking number or the guest's email address.
func (h *GuestHandler) FindStay(c *gin.Context) {
	stay, err := h.lifecycle.FindStay(c.Param("booking"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stay)
}

// CreateRequest handles POST /api/v1/stays/:booking/requests
func (h *GuestHandler) CreateRequest(c *gin.Context) {
	stay, err := h.lifecycle.FindStay(c.Param("booking"))
	if err != nil {
		respondError(c, err)
		return
	}
	if stay.InHouse == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"message": "Service requests are only available after check-in",
		})
		return
	}

	var in models.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": err.Error(),
		})
		return
	}

	req, err := h.requests.Create(stay.InHouse.GuestName, stay.InHouse.RoomNumber, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request received. Our staff will be with you shortly.",
		"request": req,
	})
}

// Checkout handles POST /api/v1/stays/:booking/checkout
func (h *GuestHandler) Checkout(c *gin.Context) {
	stay, err := h.lifecycle.FindStay(c.Param("booking"))
	if err != nil {
		respondError(c, err)
		return
	}
	if stay.InHouse == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"message": "Only checked-in stays can be checked out",
		})
		return
	}

	var req models.CheckoutRequest
	// feedback is optional; an empty body is fine
	_ = c.ShouldBindJSON(&req)

	record, err := h.lifecycle.CheckOut(stay.InHouse.ID, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Checkout complete. Thank you for staying with us!",
		"checkout": record,
	})
}
