package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftstay/selfcheckin-backend/internal/events"
)

// EventsHandler bridges the in-process notifier to HTTP clients over
// server-sent events, so admin dashboard views learn about state changes
// made elsewhere without polling.
type EventsHandler struct {
	bus    *events.Bus
	logger *logrus.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(bus *events.Bus, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{bus: bus, logger: logger}
}

// Stream handles GET /api/v1/admin/events
func (h *EventsHandler) Stream(c *gin.Context) {
	// Emit is synchronous on the writer's goroutine; buffer so a slow
	// client never stalls a state transition. A dropped event is fine,
	// the dashboard re-reads collections on reconnect.
	ch := make(chan events.Event, 16)
	unsubscribe := h.bus.SubscribeAll(func(evt events.Event) {
		select {
		case ch <- evt:
		default:
			h.logger.WithField("topic", evt.Topic).Warn("Dropping event for slow stream subscriber")
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	// Flush the headers right away so the SSE handshake completes before
	// the first event; otherwise the client blocks waiting for a response.
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case evt := <-ch:
			c.SSEvent(string(evt.Topic), string(evt.Payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
