// Package config loads runtime configuration from the environment,
// optionally seeded from a local .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Persistence driver names
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all runtime settings
type Config struct {
	Environment   string        `envconfig:"ENVIRONMENT" default:"development"`
	ServerAddress string        `envconfig:"SERVER_ADDRESS" default:":8080"`
	FrontendURL   string        `envconfig:"FRONTEND_URL"`
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer     string        `envconfig:"JWT_ISSUER" default:"meetsync"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	// PersistenceDriver selects the store backing the entity collections
	PersistenceDriver string `envconfig:"PERSISTENCE_DRIVER" default:"memory"`
	SQLitePath        string `envconfig:"SQLITE_PATH" default:"meetsync.db"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from the environment. A missing .env file is
// not an error; explicit environment variables always win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that envconfig cannot express
func (c Config) Validate() error {
	switch c.PersistenceDriver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("unknown persistence driver %q", c.PersistenceDriver)
	}
	if c.PersistenceDriver == DriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
