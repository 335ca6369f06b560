// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/authz"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// limiterCleanupInterval is how often idle per-user rate limiters are pruned.
const limiterCleanupInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

//nolint:gocyclo // Sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Service: "cinematch-server",
	})

	logging.Info().
		Str("version", api.Version).
		Str("db_path", cfg.Database.Path).
		Str("events_backend", cfg.Events.Backend).
		Msg("Starting Cinematch with supervisor tree")
	if cfg.Security.GeneratedSecret() {
		logging.Warn().Msg("JWT_SECRET not set; generated a random secret, tokens will not survive a restart")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	recommendComponents, err := initRecommend(cfg, db, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	defer func() {
		if err := recommendComponents.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result cache")
		}
	}()

	var purger events.Purger
	if recommendComponents.Cache != nil {
		purger = recommendComponents.Cache
	}
	eventComponents, err := initEvents(&cfg.Events, purger, logging.WithComponent("events"))
	if err != nil {
		return fmt.Errorf("initialize events: %w", err)
	}
	defer func() {
		if err := eventComponents.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize JWT manager: %w", err)
	}
	authService := auth.NewService(db, tokens, &cfg.Security)

	enforcer, err := authz.NewEnforcer(cfg.Security.AuthzPolicyPath)
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}

	handler := api.NewHandler(db, recommendComponents.Engine, authService, cfg)
	handler.SetEventPublisher(eventComponents.Publisher, eventComponents.Bus.Backend())
	if recommendComponents.Breaker != nil {
		handler.SetBreaker(recommendComponents.Breaker)
	}

	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	router := api.NewRouter(
		handler,
		auth.NewMiddleware(tokens, db),
		authz.NewMiddleware(enforcer, api.WriteError),
		chiMiddleware,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if resultCache := recommendComponents.Cache; resultCache != nil && cfg.Cache.Path != "" {
		tree.AddDataService(services.NewPeriodicService("cache-gc", cfg.Cache.GCInterval, func(context.Context) error {
			_, err := resultCache.RunGC()
			return err
		}, logging.WithComponent("cache")))
	}

	if eventComponents.Invalidator != nil {
		tree.AddMessagingService(services.NewRunnerService("cache-invalidator", eventComponents.Invalidator))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	if !cfg.Security.RateLimitDisabled {
		limiter := chiMiddleware.UserLimiter()
		tree.AddAPIService(services.NewPeriodicService("rate-limiter-cleanup", limiterCleanupInterval, func(context.Context) error {
			remaining := limiter.Cleanup()
			logging.Debug().Int("active_limiters", remaining).Msg("Pruned idle rate limiters")
			return nil
		}, logging.WithComponent("ratelimit")))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if err := db.Checkpoint(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Final checkpoint failed")
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
