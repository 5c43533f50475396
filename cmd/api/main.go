// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

// Command api is the entry point for the Tipon registration API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect object storage and the notification broker.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/tipon-events/tipon/internal/api"
	"github.com/tipon-events/tipon/internal/core/formsession"
	"github.com/tipon-events/tipon/internal/core/proof"
	"github.com/tipon-events/tipon/internal/core/registration"
	"github.com/tipon-events/tipon/internal/core/scope"
	"github.com/tipon-events/tipon/internal/notify"
	"github.com/tipon-events/tipon/internal/platform/blob"
	"github.com/tipon-events/tipon/internal/platform/config"
	"github.com/tipon-events/tipon/internal/platform/constants"
	"github.com/tipon-events/tipon/internal/platform/gate"
	"github.com/tipon-events/tipon/internal/platform/migration"
	pgstore "github.com/tipon-events/tipon/internal/platform/postgres"
	redisstore "github.com/tipon-events/tipon/internal/platform/redis"
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

	log.Info("[Tipon] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
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
		slog.String("base_domain", cfg.BaseDomain),
	)

	limits := cfg.ParseLimits(log)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lifecycle context for background workers (gate sweeper, notification
	// worker). Canceled once shutdown begins.
	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Object Storage ─────────────────────────────────────────────────
	blobStore, err := blob.NewStore(startupCtx, blob.Options{
		Endpoint:      cfg.S3Endpoint,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		UseSSL:        cfg.S3UseSSL,
		PublicBaseURL: cfg.S3PublicBaseURL,
	}, log)
	must(log, err, "connect object storage")

	// ── 7. Notification Broker ────────────────────────────────────────────
	var notifier registration.Notifier = notify.NopNotifier{Logger: log}
	var publisher *notify.Publisher
	if cfg.AMQPEnabled {
		publisher, err = notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, log)
		must(log, err, "connect notification broker")
		defer publisher.Close()
		notifier = publisher

		mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword, log)
		worker, err := notify.NewWorker(publisher.Connection(), cfg.AMQPQueue, mailer, log)
		must(log, err, "start notification worker")
		go func() {
			if werr := worker.Run(runCtx); werr != nil && !errors.Is(werr, context.Canceled) {
				log.Error("notification worker stopped", slog.Any("error", werr))
			}
		}()
	} else {
		log.Warn("AMQP disabled, confirmations will be logged and dropped")
	}

	// ── 8. Request Gate ───────────────────────────────────────────────────
	// The Redis-backed keeper shares its counters across instances; if Redis
	// ever goes away the middleware fails open, so there is no memory fallback
	// to wire here.
	keeper := gate.NewRedisKeeper(rdb)

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBlob: func() error {
			return blobStore.Healthy(context.Background())
		},
	}
	if publisher != nil {
		healthDeps.CheckBroker = publisher.Healthy
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 10. Domain Wiring ─────────────────────────────────────────────────
	scopeRepository := scope.NewPostgresRepository(pool)
	scopeService := scope.NewService(scopeRepository, limits, log)
	scopeHandler := scope.NewHandler(scopeService)

	registrationRepository := registration.NewPostgresRepository(pool)
	registrationService := registration.NewService(registrationRepository, scopeService, notifier, log)
	registrationHandler := registration.NewHandler(registrationService)

	proofRepository := proof.NewPostgresRepository(pool)
	proofService := proof.NewService(proofRepository, blobStore, log)
	proofHandler := proof.NewHandler(proofService)

	sessionRepository := formsession.NewRedisRepository(rdb)
	sessionService := formsession.NewService(sessionRepository, log)
	sessionHandler := formsession.NewHandler(sessionService)

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Scope:        scopeHandler,
		Registration: registrationHandler,
		Proof:        proofHandler,
		FormSession:  sessionHandler,
	}

	server := api.NewServer(cfg, log, keeper, handlers)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
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

	runCancel()

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
