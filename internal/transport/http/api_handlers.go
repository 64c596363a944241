package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionHandlers serves read-only session state over plain HTTP.
type SessionHandlers struct {
	hub SessionHub
	log *zerolog.Logger
}

// NewSessionHandlers creates a new session handlers instance.
func NewSessionHandlers(hub SessionHub, logger *zerolog.Logger) *SessionHandlers {
	return &SessionHandlers{
		hub: hub,
		log: logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetSession returns the admin, zone and participant list so a client can decide
// whether to join before opening a websocket.
// GET /api/session
func (h *SessionHandlers) GetSession(c *gin.Context) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read session snapshot")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, sessionOut(snap))
}
