// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// Signup creates an account and returns an access token.
//
// POST /api/auth/signup {"email": "...", "password": "..."}
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.SignupRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	token, err := h.auth.Signup(r.Context(), req.Email, req.Password, clientIP(r))
	switch {
	case errors.Is(err, database.ErrDuplicateEmail):
		respondError(w, r, http.StatusBadRequest, ErrCodeConflict, "Email already registered", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create account", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, token, start)
}

// Login exchanges credentials for an access token.
//
// POST /api/auth/login {"email": "...", "password": "..."}
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password, clientIP(r))
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Bearer realm="cinematch"`)
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Login failed", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, token, start)
}

// currentClaims returns the authenticated caller. Routes using it sit
// behind auth.Middleware.Authenticate; a missing identity is answered
// with 401.
func currentClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Not authenticated", nil)
		return nil, false
	}
	return claims, true
}
