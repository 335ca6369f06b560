// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ContentRecommendations ranks unseen movies by TF-IDF similarity to the
// caller's liked movies.
//
// GET /api/recommendations/content?top_n=20
func (h *Handler) ContentRecommendations(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	limits := h.engine.Config().Limits
	params := models.ContentRecommendParams{}
	var apiErr *models.APIError
	if params.TopN, apiErr = queryInt(r, "top_n", limits.DefaultTopN); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr = validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	h.respondRecommendations(w, r, func(ctx context.Context) (*recommend.Result, error) {
		return h.engine.RecommendContentBased(ctx, claims.UserID, params.TopN)
	})
}

// CollaborativeRecommendations ranks unseen movies by user-KNN predicted
// ratings.
//
// GET /api/recommendations/cf?k=20&top_n=20
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	limits := h.engine.Config().Limits
	params := models.CollaborativeRecommendParams{}
	var apiErr *models.APIError
	if params.K, apiErr = queryInt(r, "k", limits.DefaultK); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if params.TopN, apiErr = queryInt(r, "top_n", limits.DefaultTopN); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr = validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	h.respondRecommendations(w, r, func(ctx context.Context) (*recommend.Result, error) {
		return h.engine.RecommendCollaborative(ctx, claims.UserID, params.K, params.TopN)
	})
}

// respondRecommendations runs a strategy and writes its items, with the
// fallback reason and cache status in the metadata.
func (h *Handler) respondRecommendations(w http.ResponseWriter, r *http.Request, run func(context.Context) (*recommend.Result, error)) {
	result, err := run(r.Context())
	if err != nil {
		var paramErr *recommend.InvalidParameterError
		switch {
		case errors.As(err, &paramErr):
			respondValidation(w, r, &models.APIError{
				Code:    ErrCodeValidation,
				Message: paramErr.Error(),
				Details: map[string]interface{}{"field": paramErr.Name, "value": paramErr.Value},
			})
		case errors.Is(err, recommend.ErrProviderUnavailable):
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendations temporarily unavailable", err)
		default:
			respondError(w, r, http.StatusInternalServerError, ErrCodeRecommend, "Failed to compute recommendations", err)
		}
		return
	}

	meta := models.Metadata{
		QueryTimeMS: result.Elapsed.Milliseconds(),
		Cached:      result.CacheHit,
	}
	if result.Fallback != recommend.FallbackNone {
		meta.Fallback = result.Fallback.String()
	}

	items := result.Items
	if items == nil {
		items = []recommend.Recommendation{}
	}
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     items,
		Metadata: meta,
	})
}
