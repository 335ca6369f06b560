// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Version is reported by /health. Overridden at build time with
// -ldflags "-X github.com/tomtom215/cinematch/internal/api.Version=...".
var Version = "dev"

// BreakerStater reports the recommendation data provider's breaker state.
type BreakerStater interface {
	State() gobreaker.State
}

// Handler contains dependencies for API handlers.
type Handler struct {
	db        *database.DB
	engine    *recommend.Engine
	auth      *auth.Service
	config    *config.Config
	startTime time.Time

	// Optional collaborators, set once during startup.
	publisher     EventPublisher
	eventsBackend string
	breaker       BreakerStater
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(db, engine, authService, cfg)
//	handler.SetEventPublisher(publisher, bus.Backend())
//	router := api.NewRouter(handler, authMiddleware, authzMiddleware, &cfg.Security)
//	http.ListenAndServe(":8000", router.Setup())
func NewHandler(db *database.DB, engine *recommend.Engine, authService *auth.Service, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		engine:    engine,
		auth:      authService,
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetBreaker exposes the provider circuit breaker state on /health.
func (h *Handler) SetBreaker(b BreakerStater) {
	h.breaker = b
}
