// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Hushnote HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load and validate configuration from environment variables.
//  3. Connect the identity directory (PostgreSQL + migrations, or MongoDB).
//  4. Connect to Redis when the login throttle is enabled.
//  5. Wire token service, sign-in flow and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/hushnote/internal/api"
	"github.com/taibuivan/hushnote/internal/pages"
	"github.com/taibuivan/hushnote/internal/platform/config"
	"github.com/taibuivan/hushnote/internal/platform/constants"
	"github.com/taibuivan/hushnote/internal/platform/middleware"
	"github.com/taibuivan/hushnote/internal/platform/migration"
	mongostore "github.com/taibuivan/hushnote/internal/platform/mongo"
	pgstore "github.com/taibuivan/hushnote/internal/platform/postgres"
	redisstore "github.com/taibuivan/hushnote/internal/platform/redis"
	"github.com/taibuivan/hushnote/internal/platform/sec"
	"github.com/taibuivan/hushnote/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Hushnote] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A missing or short AUTH_SECRET stops the process here, before any connection is opened.
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("directory_backend", cfg.DirectoryBackend),
		slog.Bool("login_throttle", cfg.LoginThrottleEnabled),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	var healthChecks []api.HealthCheck

	// ── 3. Identity Directory ─────────────────────────────────────────────
	var directory auth.Directory

	switch cfg.DirectoryBackend {
	case config.BackendMongo:
		client, err := mongostore.NewClient(startupCtx, cfg.MongoURL, log)
		must(log, err, "connect to mongo")
		defer func() {
			log.Info("closing mongo client")
			if cerr := client.Disconnect(context.Background()); cerr != nil {
				log.Error("mongo disconnect error", slog.Any("error", cerr))
			}
		}()

		directory = auth.NewMongoDirectory(client.Database(cfg.MongoDatabase))
		healthChecks = append(healthChecks, api.HealthCheck{
			Name:  "mongo",
			Check: func(ctx context.Context) error { return mongostore.Ping(ctx, client) },
		})

	default:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		directory = auth.NewPostgresDirectory(pool)
		healthChecks = append(healthChecks, api.HealthCheck{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		})
	}

	// ── 4. Redis (login throttle) ─────────────────────────────────────────
	var throttle auth.LoginThrottle

	if cfg.LoginThrottleEnabled {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		throttle = auth.NewRedisLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginCooldown)
		healthChecks = append(healthChecks, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// ── 5. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ── 6. Auth Service ───────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.AuthSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	authService := auth.NewService(
		auth.NewAuthenticator(directory),
		tokenService,
		throttle,
		auth.NewMetrics(registry),
		auth.SessionConfig{MaxAge: cfg.SessionMaxAge, UpdateAge: cfg.SessionUpdateAge},
	)
	authHandler := auth.NewHandler(authService, auth.CookieOptions{Secure: !cfg.IsDevelopment()})

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(healthChecks, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log,
		api.Dependencies{
			Verifier: tokenService,
			Metrics:  middleware.NewMetrics(registry),
			Gatherer: registry,
		},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      authHandler,
			Pages:     pages.NewHandler(),
		},
	)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
