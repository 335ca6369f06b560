// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package authz

import (
	"net/http"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/logging"
)

// ErrorWriter writes an error envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware enforces authorization on authenticated routes.
type Middleware struct {
	enforcer *Enforcer
	secLog   *logging.SecurityLogger
	writeErr ErrorWriter
}

// NewMiddleware returns authorization middleware that reports failures
// through writeErr.
func NewMiddleware(enforcer *Enforcer, writeErr ErrorWriter) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		secLog:   logging.NewSecurityLogger(),
		writeErr: writeErr,
	}
}

// Authorize returns middleware that requires the caller's role to allow
// action on object. It must run after auth.Middleware.Authenticate.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				m.writeErr(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
				return
			}

			allowed, err := m.enforcer.Enforce(claims.Role, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				m.writeErr(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			if !allowed {
				m.secLog.LogForbidden(claims.UserID, claims.Role, object, action)
				m.writeErr(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
