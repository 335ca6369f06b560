// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// Health reports database connectivity, corpus version and breaker state.
// A failed database ping answers 503 so load balancers drop the instance.
//
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:        "healthy",
		Version:       Version,
		DatabaseOK:    h.db != nil && h.db.Ping(r.Context()) == nil,
		EventsBackend: h.eventsBackend,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	if health.EventsBackend == "" {
		health.EventsBackend = "disabled"
	}
	if h.breaker != nil {
		health.BreakerState = h.breaker.State().String()
	}

	status := http.StatusOK
	if health.DatabaseOK {
		if version, err := h.db.CorpusVersion(r.Context()); err == nil {
			health.CorpusVersion = version
		}
	} else {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "success",
		Data:   health,
	})
}

// Overview returns catalogue-wide counts and coverage.
//
// GET /api/metrics/overview
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	overview, err := h.db.Overview(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to compute overview", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, overview, start)
}
