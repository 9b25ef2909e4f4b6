package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"meetsync/pkg/auth"
	"meetsync/pkg/common"
	pkgerrors "meetsync/pkg/errors"
)

// Server upgrades authenticated HTTP requests to websocket connections
type Server struct {
	hub      *Hub
	tokens   *auth.JWTService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewServer creates a websocket server
func NewServer(hub *Hub, tokens *auth.JWTService, allowedOrigin string, logger *zap.Logger) *Server {
	return &Server{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		logger: logger,
	}
}

// HandleWebSocket authenticates the request and upgrades it. Browsers
// cannot set headers on websocket handshakes, so the token is accepted
// from the query string as well as the Authorization header.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		common.RespondAppError(w, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the handshake error response
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn, userID, s.logger)
	client.Start()
}
