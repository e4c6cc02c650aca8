// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token signer) via constructors.
  - Fail Fast: The session signing secret is validated before any connection is opened.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Directory Backends

const (
	// BackendPostgres reads identity records from the users.account table.
	BackendPostgres = "postgres"

	// BackendMongo reads identity records from the users collection.
	BackendMongo = "mongo"
)

// MinSecretLength is the minimum byte length accepted for AUTH_SECRET.
const MinSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Hushnote API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// AuthSecret signs and verifies session tokens (HS256).
	AuthSecret string `env:"AUTH_SECRET,required"`

	// Session lifetime and the age after which a token is re-issued on access.
	SessionMaxAge    time.Duration `env:"SESSION_MAX_AGE"    envDefault:"720h"`
	SessionUpdateAge time.Duration `env:"SESSION_UPDATE_AGE" envDefault:"24h"`

	// DirectoryBackend selects where identity records are read from.
	DirectoryBackend string `env:"DIRECTORY_BACKEND" envDefault:"postgres"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Document Database (MongoDB)
	MongoURL      string `env:"MONGO_URL"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"hushnote"`

	// Key-Value Cache (Redis), used by the login throttle.
	RedisURL string `env:"REDIS_URL"`

	// Failed sign-in throttling per identifier.
	LoginThrottleEnabled bool          `env:"LOGIN_THROTTLE_ENABLED" envDefault:"true"`
	LoginMaxAttempts     int           `env:"LOGIN_MAX_ATTEMPTS"     envDefault:"10"`
	LoginCooldown        time.Duration `env:"LOGIN_COOLDOWN"         envDefault:"15m"`

	// Cross-Origin Resource Sharing
	// Comma separated origins allowed in addition to *.hushnote.app.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.AuthSecret) < MinSecretLength {
		return fmt.Errorf("config: AUTH_SECRET must be at least %d bytes", MinSecretLength)
	}

	if c.SessionMaxAge <= 0 {
		return errors.New("config: SESSION_MAX_AGE must be positive")
	}

	switch c.DirectoryBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres directory")
		}
	case BackendMongo:
		if c.MongoURL == "" {
			return errors.New("config: MONGO_URL is required for the mongo directory")
		}
	default:
		return fmt.Errorf("config: unknown DIRECTORY_BACKEND %q", c.DirectoryBackend)
	}

	if c.LoginThrottleEnabled {
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required when LOGIN_THROTTLE_ENABLED is set")
		}
		if c.LoginMaxAttempts <= 0 {
			return errors.New("config: LOGIN_MAX_ATTEMPTS must be positive")
		}
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the origins accepted by CORS on top of the hushnote.app domain.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
