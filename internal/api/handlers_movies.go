// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/models"
)

// ListMovies lists and searches the catalogue with rating aggregates.
//
// GET /api/movies?q=&year=&genre=&page=1&size=20
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := models.MovieListParams{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Genre: strings.TrimSpace(r.URL.Query().Get("genre")),
	}
	var apiErr *models.APIError
	if params.Year, apiErr = queryInt(r, "year", 0); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if params.Page, apiErr = queryInt(r, "page", 1); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if params.Size, apiErr = queryInt(r, "size", database.DefaultPageSize); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr = validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	movies, err := h.db.ListMovies(r.Context(), models.MovieFilter{
		Query: params.Query,
		Year:  params.Year,
		Genre: params.Genre,
		Page:  params.Page,
		Size:  params.Size,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to list movies", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, movies, start)
}

// GetMovie returns one movie with its rating aggregates.
//
// GET /api/movies/{id}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, apiErr := pathInt(r, "id")
	if apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	movie, err := h.db.GetMovie(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load movie", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, movie, start)
}

// CreateMovie adds a movie to the catalogue. Admin only.
//
// POST /api/movies {"title": "...", "year": 1995, "genres": "Action|Crime", "overview": "..."}
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateMovieRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	movie, err := h.db.CreateMovie(r.Context(), &req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to create movie", err)
		return
	}

	h.publishChange(r.Context(), events.KindMovieCreated, 0, movie.ID)
	respondSuccess(w, r, http.StatusCreated, movie, start)
}
