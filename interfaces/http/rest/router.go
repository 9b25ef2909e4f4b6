// Package rest wires the HTTP routes onto the handlers
package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"meetsync/interfaces/http/rest/handlers"
	"meetsync/interfaces/http/rest/middleware"
	"meetsync/interfaces/websocket"
	"meetsync/pkg/auth"
	"meetsync/pkg/observability"
)

// RouterDeps carries everything the router mounts
type RouterDeps struct {
	Auth     *handlers.AuthHandler
	Meetings *handlers.MeetingHandler
	Tasks    *handlers.TaskHandler
	Health   *handlers.HealthHandler
	WS       *websocket.Server
	Tokens   *auth.JWTService
	Metrics  *observability.Collector
	Logger   *zap.Logger

	// FrontendURL is the origin allowed by CORS; empty allows any
	FrontendURL string
}

// NewRouter assembles the full route tree
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))

	allowedOrigins := []string{"*"}
	if deps.FrontendURL != "" {
		allowedOrigins = []string{deps.FrontendURL}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: deps.FrontendURL != "",
		MaxAge:           300,
	}))

	r.Get("/api/health", deps.Health.Health)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(deps.Tokens, deps.Logger))
			r.Get("/me", deps.Auth.Me)
		})
	})

	r.Route("/api/meetings", func(r chi.Router) {
		r.Use(middleware.Authenticator(deps.Tokens, deps.Logger))

		r.Get("/", deps.Meetings.List)
		r.Post("/", deps.Meetings.Create)
		r.Get("/my-meetings", deps.Meetings.ListMine)
		r.Get("/{id}", deps.Meetings.Get)
		r.Put("/{id}", deps.Meetings.Update)
		r.Delete("/{id}", deps.Meetings.Delete)
		r.Post("/{id}/participants", deps.Meetings.AddParticipant)
		r.Get("/{id}/participants", deps.Meetings.ListParticipants)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(middleware.Authenticator(deps.Tokens, deps.Logger))

		r.Get("/", deps.Tasks.List)
		r.Post("/", deps.Tasks.Create)
		r.Get("/my-tasks", deps.Tasks.ListMine)
		r.Get("/meeting/{meetingId}", deps.Tasks.ListForMeeting)
		r.Get("/{id}", deps.Tasks.Get)
		r.Put("/{id}", deps.Tasks.Update)
		r.Patch("/{id}/status", deps.Tasks.SetStatus)
		r.Delete("/{id}", deps.Tasks.Delete)
	})

	// The websocket handshake authenticates itself; the token rides the
	// query string because browsers cannot set handshake headers.
	r.Get("/ws", deps.WS.HandleWebSocket)

	return r
}
