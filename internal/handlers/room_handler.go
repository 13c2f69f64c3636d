package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftstay/selfcheckin-backend/internal/services"
)

// RoomHandler serves the fixed room catalog with derived occupancy.
type RoomHandler struct {
	lifecycle *services.LifecycleService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(lifecycle *services.LifecycleService) *RoomHandler {
	return &RoomHandler{lifecycle: lifecycle}
}

// ListRooms handles GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	inHouse, err := h.lifecycle.InHouse()
	if err != nil {
		respondError(c, err)
		return
	}

	rooms := services.DeriveRoomStatuses(inHouse)
	if roomType := c.Query("type"); roomType != "" {
		filtered := rooms[:0:0]
		for _, room := range rooms {
			if room.RoomType == roomType {
				filtered = append(filtered, room)
			}
		}
		rooms = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Availability handles GET /api/v1/rooms/availability
func (h *RoomHandler) Availability(c *gin.Context) {
	inHouse, err := h.lifecycle.InHouse()
	if err != nil {
		respondError(c, err)
		return
	}

	breakdown := services.OccupancyBreakdown(inHouse)
	occupied, total := 0, 0
	for _, t := range breakdown {
		occupied += t.Occupied
		total += t.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"breakdown":     breakdown,
		"totalRooms":    total,
		"totalOccupied": occupied,
	})
}
