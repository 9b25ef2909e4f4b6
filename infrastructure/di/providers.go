// Package di assembles the object graph. Providers are plain constructors;
// wire generates the initializer that chains them.
package di

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"meetsync/application/ports"
	"meetsync/application/services"
	"meetsync/infrastructure/config"
	"meetsync/infrastructure/persistence/memory"
	"meetsync/infrastructure/persistence/sqlite"
	"meetsync/interfaces/http/rest"
	"meetsync/interfaces/http/rest/handlers"
	"meetsync/interfaces/websocket"
	"meetsync/pkg/auth"
	"meetsync/pkg/observability"
)

// Container is the assembled application
type Container struct {
	Config config.Config
	Logger *zap.Logger
	Hub    *websocket.Hub
	Router http.Handler
}

// Repositories bundles the three store views handed to the services
type Repositories struct {
	Meetings ports.MeetingRepository
	Tasks    ports.TaskRepository
	Users    ports.UserRepository
}

// ProvideLogger builds the process logger. Production gets sampled JSON;
// everything else gets the development console encoder.
func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }
	return logger, cleanup, nil
}

// ProvideCollector builds the metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("meetsync")
}

// ProvideJWTService builds the token issuer from configuration
func ProvideJWTService(cfg config.Config) (*auth.JWTService, error) {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		TokenTTL:  cfg.TokenTTL,
	})
}

// ProvideRepositories opens the store selected by configuration. The
// cleanup closes the relational handle; the in-memory store has nothing
// to release.
func ProvideRepositories(cfg config.Config, logger *zap.Logger) (Repositories, func(), error) {
	switch cfg.PersistenceDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(context.Background(), cfg.SQLitePath)
		if err != nil {
			return Repositories{}, nil, err
		}
		logger.Info("using sqlite persistence", zap.String("path", cfg.SQLitePath))
		cleanup := func() { _ = store.Close() }
		return Repositories{
			Meetings: store.Meetings(),
			Tasks:    store.Tasks(),
			Users:    store.Users(),
		}, cleanup, nil

	default:
		store := memory.NewStore()
		logger.Info("using in-memory persistence")
		return Repositories{
			Meetings: store.Meetings(),
			Tasks:    store.Tasks(),
			Users:    store.Users(),
		}, func() {}, nil
	}
}

// ProvideHub builds the websocket hub. The caller owns its lifecycle:
// Run is started by main and Stop is part of cleanup.
func ProvideHub(collector *observability.Collector, logger *zap.Logger) (*websocket.Hub, func()) {
	hub := websocket.NewHub(collector, logger)
	return hub, hub.Stop
}

// ProvidePublisher adapts the hub to the event publisher port
func ProvidePublisher(hub *websocket.Hub, logger *zap.Logger) ports.EventPublisher {
	return websocket.NewBroadcaster(hub, logger)
}

// ProvideParticipantRegistry builds the participant registry
func ProvideParticipantRegistry(repos Repositories) *services.ParticipantRegistry {
	return services.NewParticipantRegistry(repos.Meetings, repos.Users)
}

// ProvideMeetingService builds the meeting service
func ProvideMeetingService(
	repos Repositories,
	registry *services.ParticipantRegistry,
	publisher ports.EventPublisher,
	collector *observability.Collector,
	logger *zap.Logger,
) *services.MeetingService {
	return services.NewMeetingService(repos.Meetings, registry, publisher, collector, logger)
}

// ProvideTaskService builds the task service
func ProvideTaskService(
	repos Repositories,
	publisher ports.EventPublisher,
	collector *observability.Collector,
	logger *zap.Logger,
) *services.TaskService {
	return services.NewTaskService(repos.Tasks, repos.Meetings, publisher, collector, logger)
}

// ProvideAuthService builds the auth service
func ProvideAuthService(repos Repositories, tokens *auth.JWTService, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(repos.Users, tokens, logger)
}

// ProvideWebSocketServer builds the websocket upgrade handler
func ProvideWebSocketServer(hub *websocket.Hub, tokens *auth.JWTService, cfg config.Config, logger *zap.Logger) *websocket.Server {
	return websocket.NewServer(hub, tokens, cfg.FrontendURL, logger)
}

// ProvideRouter assembles the HTTP route tree
func ProvideRouter(
	cfg config.Config,
	authService *services.AuthService,
	meetingService *services.MeetingService,
	taskService *services.TaskService,
	hub *websocket.Hub,
	wsServer *websocket.Server,
	tokens *auth.JWTService,
	collector *observability.Collector,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(rest.RouterDeps{
		Auth:        handlers.NewAuthHandler(authService, logger),
		Meetings:    handlers.NewMeetingHandler(meetingService, logger),
		Tasks:       handlers.NewTaskHandler(taskService, logger),
		Health:      handlers.NewHealthHandler(hub),
		WS:          wsServer,
		Tokens:      tokens,
		Metrics:     collector,
		Logger:      logger,
		FrontendURL: cfg.FrontendURL,
	})
}

// ProvideContainer bundles the assembled graph
func ProvideContainer(cfg config.Config, logger *zap.Logger, hub *websocket.Hub, router http.Handler) *Container {
	return &Container{
		Config: cfg,
		Logger: logger,
		Hub:    hub,
		Router: router,
	}
}
