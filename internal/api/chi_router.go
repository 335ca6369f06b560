// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/authz"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	authn         *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authn *auth.Middleware, authzMw *authz.Middleware, chiMw *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		authn:         authn,
		authz:         authzMw,
		chiMiddleware: chiMw,
	}
}

// Setup configures every route.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})

		r.Get("/metrics/overview", h.Overview)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", h.ListMovies)
			r.Get("/{id}", h.GetMovie)
			r.With(
				router.authn.Authenticate,
				router.authz.Authorize(authz.ObjectMovies, authz.ActionWrite),
			).Post("/", h.CreateMovie)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Use(router.authn.Authenticate)
			r.With(router.authz.Authorize(authz.ObjectRatings, authz.ActionWrite)).Post("/", h.UpsertRating)
			r.With(router.authz.Authorize(authz.ObjectRatings, authz.ActionRead)).Get("/me", h.MyRatings)
			r.With(router.authz.Authorize(authz.ObjectRatings, authz.ActionDelete)).Delete("/{movie_id}", h.DeleteRating)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(router.authn.Authenticate)
			r.Use(router.authz.Authorize(authz.ObjectRecommendations, authz.ActionRead))
			r.Use(router.chiMiddleware.RateLimitUser())
			r.Get("/content", h.ContentRecommendations)
			r.Get("/cf", h.CollaborativeRecommendations)
		})
	})

	return r
}
