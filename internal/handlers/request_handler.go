package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
)

// RequestHandler serves the admin pending-requests dashboard.
type RequestHandler struct {
	requests *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requests *services.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// List handles GET /api/v1/admin/requests
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.requests.List()
	if err != nil {
		respondError(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := requests[:0:0]
		for _, r := range requests {
			if string(r.Status) == status {
				filtered = append(filtered, r)
			}
		}
		requests = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// UpdateStatus handles PUT /api/v1/admin/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in models.UpdateRequestStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": "status is required",
		})
		return
	}

	req, err := h.requests.UpdateStatus(id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}

// Assign handles PUT /api/v1/admin/requests/:id/assign
func (h *RequestHandler) Assign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in models.AssignRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": err.Error(),
		})
		return
	}

	req, err := h.requests.Assign(id, in.AssignedTo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}

// Delete handles DELETE /api/v1/admin/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.requests.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}
