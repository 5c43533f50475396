// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

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

	"github.com/tipon-events/tipon/internal/core/formsession"
	"github.com/tipon-events/tipon/internal/core/proof"
	"github.com/tipon-events/tipon/internal/core/registration"
	"github.com/tipon-events/tipon/internal/core/scope"
	"github.com/tipon-events/tipon/internal/platform/config"
	"github.com/tipon-events/tipon/internal/platform/constants"
	"github.com/tipon-events/tipon/internal/platform/gate"
	"github.com/tipon-events/tipon/internal/platform/middleware"
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
//
// # Usage
//
// New domains add a field here, no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler. Always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. Returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Scope serves event metadata for a registration scope.
	Scope *scope.Handler

	// Registration handles capacity queries, submissions, and lookups.
	Registration *registration.Handler

	// Proof handles payment-proof uploads against a committed registration.
	Proof *proof.Handler

	// FormSession tracks the advisory form countdown.
	FormSession *formsession.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, keeper gate.Keeper, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.Gate(keeper, log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.ScopeFromHost(cfg.BaseDomain))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/scopes/{code}", func(scoped chi.Router) {
			h.Scope.RegisterRoutes(scoped)
			h.Registration.RegisterScopeRoutes(scoped)
		})
		api.Route("/registrations", func(lookup chi.Router) {
			h.Registration.RegisterLookupRoutes(lookup)
			lookup.Route("/{transId}/proofs", h.Proof.RegisterRoutes)
		})
		api.Route("/sessions", h.FormSession.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
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
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
