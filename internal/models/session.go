package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminSession records an admin dashboard login. Sessions live in the
// adminSessions collection and are removed on logout.
type AdminSession struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	DeviceType string    `json:"deviceType"`
	OS         string    `json:"os"`
	Browser    string    `json:"browser"`
	IP         string    `json:"ip"`
	LoginAt    time.Time `json:"loginAt"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
