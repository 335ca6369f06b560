// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// UserLookup reloads the account behind a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

// Middleware enforces bearer token authentication.
type Middleware struct {
	tokens *JWTManager
	users  UserLookup
	secLog *logging.SecurityLogger
}

// NewMiddleware returns authentication middleware. users may be nil, in
// which case the token claims are trusted without a store lookup.
func NewMiddleware(tokens *JWTManager, users UserLookup) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		secLog: logging.NewSecurityLogger(),
	}
}

// Authenticate rejects requests without a valid bearer token with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeUnauthorized(w, r, "Not authenticated")
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			m.secLog.LogTokenRejected(token, r.RemoteAddr, err.Error())
			writeUnauthorized(w, r, "Could not validate credentials")
			return
		}

		if m.users != nil {
			user, err := m.users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					m.secLog.LogTokenRejected(token, r.RemoteAddr, "user no longer exists")
					writeUnauthorized(w, r, "Could not validate credentials")
					return
				}
				logging.Ctx(r.Context()).Error().Err(err).Msg("user lookup failed")
				writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			claims.Role = user.Role
			claims.Subject = user.Email
		}

		ctx := ContextWithClaims(r.Context(), claims)
		logger := logging.LoggerFromContext(ctx).With().Int("user_id", claims.UserID).Logger()
		ctx = logging.ContextWithLogger(ctx, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken parses an "Authorization: Bearer <token>" header.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="cinematch"`)
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to write auth error")
	}
}
