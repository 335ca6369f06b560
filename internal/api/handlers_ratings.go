// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/models"
)

// UpsertRating stores the caller's score for a movie, replacing any
// earlier score.
//
// POST /api/ratings {"movie_id": 42, "score": 5}
func (h *Handler) UpsertRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	var req models.RatingRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	rating, err := h.db.UpsertRating(r.Context(), claims.UserID, req.MovieID, req.Score)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to save rating", err)
		return
	}

	h.publishChange(r.Context(), events.KindRatingUpserted, claims.UserID, req.MovieID)
	respondSuccess(w, r, http.StatusOK, rating, start)
}

// MyRatings lists the caller's ratings, most recently updated first.
//
// GET /api/ratings/me
func (h *Handler) MyRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	ratings, err := h.db.ListUserRatings(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to list ratings", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, ratings, start)
}

// DeleteRating removes the caller's rating of a movie.
//
// DELETE /api/ratings/{movie_id}
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	movieID, apiErr := pathInt(r, "movie_id")
	if apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	err := h.db.DeleteRating(r.Context(), claims.UserID, movieID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Rating not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to delete rating", err)
		return
	}

	h.publishChange(r.Context(), events.KindRatingDeleted, claims.UserID, movieID)
	respondSuccess(w, r, http.StatusOK, map[string]bool{"ok": true}, start)
}
