package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/middleware"
	"github.com/swiftstay/selfcheckin-backend/internal/models"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
)

// AuthHandler handles admin dashboard authentication
type AuthHandler struct {
	authService *services.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles POST /api/v1/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": "username and password are required",
		})
		return
	}

	result, err := h.authService.Login(req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.WithFields(logrus.Fields{
				"username": req.Username,
				"ip":       c.ClientIP(),
			}).Warn("Failed admin login attempt")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credentials",
				"message": "Invalid username or password",
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Refresh handles POST /api/v1/admin/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": "refreshToken is required",
		})
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "session_revoked",
				"message": "Session no longer exists. Please log in again.",
			})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Invalid refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles POST /api/v1/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	adminCtx, ok := middleware.GetAdminContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Admin context not found",
		})
		return
	}

	if err := h.authService.Logout(adminCtx.SessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Sessions handles GET /api/v1/admin/sessions
func (h *AuthHandler) Sessions(c *gin.Context) {
	sessions, err := h.authService.Sessions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}
