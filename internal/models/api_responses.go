// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"time"
)

// APIResponse is the envelope for every JSON endpoint.
//
// Status is "success" with Data set, or "error" with Error set:
//
//	{
//	  "status": "success",
//	  "data": [{"movie_id": 42, "title": "Heat", "score": 0.81}],
//	  "metadata": {
//	    "timestamp": "2026-01-05T12:00:00Z",
//	    "query_time_ms": 12,
//	    "request_id": "6f1c..."
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Cached      bool      `json:"cached,omitempty"`

	// Fallback is set on recommendation responses served by the
	// popularity ranking.
	Fallback string `json:"fallback,omitempty"`
}

// APIError is a structured error response.
//
// Common codes: VALIDATION_ERROR, UNAUTHORIZED, FORBIDDEN, NOT_FOUND,
// CONFLICT, RATE_LIMITED, DATABASE_ERROR, RECOMMEND_ERROR,
// SERVICE_UNAVAILABLE.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	DatabaseOK    bool   `json:"database_ok"`
	CorpusVersion string `json:"corpus_version,omitempty"`
	BreakerState  string `json:"breaker_state,omitempty"`
	EventsBackend string `json:"events_backend"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
