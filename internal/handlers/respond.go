package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
	"github.com/swiftstay/selfcheckin-backend/internal/store"
)

// respondError maps service errors onto HTTP responses. Every handler
// funnels failures through here so the error taxonomy stays in one
// place.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *services.NotFoundError
		validation *services.ValidationError
		transition *services.TransitionError
		storage    *store.StorageError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": notFound.Error(),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": validation.Error(),
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"message": transition.Error(),
		})
	case errors.As(err, &storage):
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "storage_error",
			"message": "The hotel state store is currently unavailable",
		})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong",
		})
	}
}
