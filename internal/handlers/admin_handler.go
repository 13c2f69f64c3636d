package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
)

// AdminHandler serves the admin dashboard: arrivals, in-house guests,
// checkout history, guest profiles, revenue and headline stats.
type AdminHandler struct {
	lifecycle *services.LifecycleService
	requests  *services.RequestService
	logger    *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(lifecycle *services.LifecycleService, requests *services.RequestService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		lifecycle: lifecycle,
		requests:  requests,
		logger:    logger,
	}
}

// ListArrivals handles GET /api/v1/admin/arrivals
func (h *AdminHandler) ListArrivals(c *gin.Context) {
	arrivals, err := h.lifecycle.Arrivals()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"arrivals": arrivals,
		"count":    len(arrivals),
	})
}

// CreateArrival handles POST /api/v1/admin/arrivals (on-site reservation)
func (h *AdminHandler) CreateArrival(c *gin.Context) {
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

	c.JSON(http.StatusCreated, gin.H{"reservation": reservation})
}

// CheckInArrival handles POST /api/v1/admin/arrivals/:id/check-in
func (h *AdminHandler) CheckInArrival(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	guest, err := h.lifecycle.CheckIn(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Guest checked in",
		"guest":   guest,
	})
}

// CancelArrival handles POST /api/v1/admin/arrivals/:id/cancel
func (h *AdminHandler) CancelArrival(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.CancelReservation(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

// ListInHouse handles GET /api/v1/admin/in-house
func (h *AdminHandler) ListInHouse(c *gin.Context) {
	inHouse, err := h.lifecycle.InHouse()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inHouse": inHouse,
		"count":   len(inHouse),
	})
}

// CheckOutGuest handles POST /api/v1/admin/in-house/:id/check-out
func (h *AdminHandler) CheckOutGuest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	// feedback is optional; an empty body is fine
	_ = c.ShouldBindJSON(&req)

	record, err := h.lifecycle.CheckOut(id, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Guest checked out",
		"checkout": record,
	})
}

// ListCheckouts handles GET /api/v1/admin/checkouts
func (h *AdminHandler) ListCheckouts(c *gin.Context) {
	checkouts, err := h.lifecycle.Checkouts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkouts": checkouts,
		"count":     len(checkouts),
	})
}

// GetGuest handles GET /api/v1/admin/guests/:id
func (h *AdminHandler) GetGuest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	profile, err := h.lifecycle.GetGuest(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteGuest handles DELETE /api/v1/admin/guests/:id
func (h *AdminHandler) DeleteGuest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.DeleteGuest(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Guest record deleted"})
}

// Revenue handles GET /api/v1/admin/revenue
func (h *AdminHandler) Revenue(c *gin.Context) {
	inHouse, err := h.lifecycle.InHouse()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.RevenueBreakdown(inHouse, time.Now()))
}

// DashboardStats handles GET /api/v1/admin/dashboard/stats
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	arrivals, err := h.lifecycle.Arrivals()
	if err != nil {
		respondError(c, err)
		return
	}
	inHouse, err := h.lifecycle.InHouse()
	if err != nil {
		respondError(c, err)
		return
	}
	checkouts, err := h.lifecycle.Checkouts()
	if err != nil {
		respondError(c, err)
		return
	}
	requests, err := h.requests.List()
	if err != nil {
		respondError(c, err)
		return
	}

	pending := 0
	for _, r := range arrivals {
		if r.EffectiveStatus() == models.StatusPending {
			pending++
		}
	}
	openRequests := 0
	for _, r := range requests {
		if r.Status == models.RequestPending || r.Status == models.RequestInProgress {
			openRequests++
		}
	}

	breakdown := services.OccupancyBreakdown(inHouse)
	occupied, total := 0, 0
	for _, t := range breakdown {
		occupied += t.Occupied
		total += t.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"pendingArrivals": pending,
		"inHouseGuests":   len(inHouse),
		"checkoutsToday":  checkoutsToday(checkouts),
		"openRequests":    openRequests,
		"occupiedRooms":   occupied,
		"availableRooms":  total - occupied,
		"occupancy":       breakdown,
		"revenue":         services.RevenueBreakdown(inHouse, time.Now()),
	})
}

func checkoutsToday(checkouts []models.CheckoutRecord) int {
	today := time.Now().Format(models.DateLayout)
	n := 0
	for _, r := range checkouts {
		if r.CheckOutDate == today {
			n++
		}
	}
	return n
}

// parseID reads the :id route parameter. A malformed ID answers 400
// directly.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": "id must be an integer",
		})
		return 0, false
	}
	return id, true
}
