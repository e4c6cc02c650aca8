// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/hushnote/internal/pages"
	"github.com/taibuivan/hushnote/internal/platform/config"
	"github.com/taibuivan/hushnote/internal/platform/constants"
	"github.com/taibuivan/hushnote/internal/platform/middleware"
	"github.com/taibuivan/hushnote/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. Always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. Returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the authentication routes (credentials, session, sign-out).
	Auth *auth.Handler

	// Pages serves the guarded page payloads.
	Pages *pages.Handler
}

// Dependencies groups the cross-cutting collaborators of the router.
type Dependencies struct {
	// Verifier resolves session tokens for [middleware.Authenticate].
	Verifier middleware.TokenVerifier

	// Metrics records request latency and guard decisions. May be nil.
	Metrics *middleware.Metrics

	// Gatherer backs GET /metrics. The endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

// # Server Initialization

// NewServer builds the router and the [http.Server] around it. context bounds
// background work started here (the rate limiter sweep).
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	router := chi.NewRouter()

	limiter := middleware.NewIPRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst, constants.RateLimitClientTTL)
	go limiter.Run(context, constants.RateLimitCleanupInterval)

	// Order matters: the access log must wrap Authenticate to see the member,
	// and CleanPath must run before routing.
	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		limiter.Middleware,
		middleware.PanicRecovery(log),
		middleware.Authenticate(deps.Verifier),
		middleware.CORS(cfg),
		chimw.CleanPath,
		deps.Metrics.Instrument,
	)

	mountRoutes(router, deps, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// mountRoutes registers infrastructure, auth API and page routes.
//
// Only the page group runs the route guard. Everything under /api/auth, the
// health endpoints and /metrics pass straight through.
func mountRoutes(router chi.Router, deps Dependencies, h Handlers) {
	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)

	if deps.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Mount(constants.AuthBasePath, h.Auth.Routes())

	guard := middleware.RouteGuard(middleware.NewRouteMatcher(constants.GuardedRoutes), deps.Metrics)
	router.Group(func(pageRouter chi.Router) {
		pageRouter.Use(guard)
		pageRouter.Mount("/", h.Pages.Routes())
	})
}

// Handler exposes the fully wired router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
