// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// ChiMiddlewareConfig holds configuration for the chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	// AuthRateLimit bounds signup and login per client IP.
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration

	// UserRateLimit bounds recommendation requests per user.
	UserRateLimitPerMinute int
	UserRateLimitBurst     int

	RateLimitDisabled bool
}

// ChiMiddlewareConfigFrom builds the middleware configuration from the
// security settings.
func ChiMiddlewareConfigFrom(s *config.SecurityConfig) *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:     s.CORSOrigins,
		CORSAllowedMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		CORSExposedHeaders:     []string{middleware.RequestIDHeader, "Retry-After"},
		CORSMaxAge:             86400,
		AuthRateLimitRequests:  s.AuthRateLimitReqs,
		AuthRateLimitWindow:    s.AuthRateLimitWindow,
		UserRateLimitPerMinute: s.UserRateLimitPerMinute,
		UserRateLimitBurst:     s.UserRateLimitBurst,
		RateLimitDisabled:      s.RateLimitDisabled,
	}
}

// ChiMiddleware provides chi-compatible middleware built from the
// go-chi ecosystem and x/time/rate.
type ChiMiddleware struct {
	config      *ChiMiddlewareConfig
	cors        func(http.Handler) http.Handler
	userLimiter *middleware.RateLimiter
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	return &ChiMiddleware{
		config: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
			ExposedHeaders: cfg.CORSExposedHeaders,
			MaxAge:         cfg.CORSMaxAge,
		}),
		userLimiter: middleware.NewRateLimiter(cfg.UserRateLimitPerMinute, cfg.UserRateLimitBurst),
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitAuth limits signup and login attempts per client IP.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || m.config.AuthRateLimitRequests <= 0 {
		return passthrough
	}
	return httprate.Limit(
		m.config.AuthRateLimitRequests,
		m.config.AuthRateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many authentication attempts", nil)
		}),
	)
}

// RateLimitUser limits requests per authenticated user. It must run after
// authentication; anonymous requests pass through.
func (m *ChiMiddleware) RateLimitUser() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || m.config.UserRateLimitPerMinute <= 0 {
		return passthrough
	}
	return m.userLimiter.Middleware(userKey, func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Rate limit exceeded", nil)
	})
}

// UserLimiter exposes the per-user limiter for periodic cleanup.
func (m *ChiMiddleware) UserLimiter() *middleware.RateLimiter {
	return m.userLimiter
}

func userKey(r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return strconv.Itoa(claims.UserID), true
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// APISecurityHeaders adds security headers to API responses. HSTS is set
// when the request arrived over TLS, directly or through a proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
