package handlers

import (
	"net/http"

	"meetsync/pkg/common"
)

// SessionCounter reports how many realtime sessions are live
type SessionCounter interface {
	SessionCount() int
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	sessions SessionCounter
}

// NewHealthHandler creates a health handler
func NewHealthHandler(sessions SessionCounter) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

type healthResponse struct {
	Status         string `json:"status"`
	ConnectedUsers int    `json:"connectedUsers"`
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		ConnectedUsers: h.sessions.SessionCount(),
	})
}
