// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// scope is the per-request logging state carried in a context.
type scope struct {
	requestID string
	logger    *zerolog.Logger
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// GenerateRequestID returns a random UUID string.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID tags ctx with a request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	s := scopeFrom(ctx)
	s.requestID = id
	return context.WithValue(ctx, scopeKey{}, s)
}

// RequestIDFromContext returns the request ID, or "" when untagged.
func RequestIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// ContextWithLogger attaches a request-scoped logger to ctx.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = &logger
	return context.WithValue(ctx, scopeKey{}, s)
}

// LoggerFromContext returns the attached logger, falling back to the
// global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return *l
	}
	return Logger()
}

// Ctx is the logger handlers should use: the context logger plus the
// request_id field when one is set.
//
//	logging.Ctx(ctx).Info().Int("movie_id", id).Msg("rating stored")
func Ctx(ctx context.Context) *zerolog.Logger {
	s := scopeFrom(ctx)
	l := LoggerFromContext(ctx)
	if s.requestID != "" {
		l = l.With().Str("request_id", s.requestID).Logger()
	}
	return &l
}
