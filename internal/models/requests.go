// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// CreateMovieRequest is the body of POST /api/movies.
type CreateMovieRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Year     *int   `json:"year" validate:"omitempty,min=1870,max=2100"`
	Genres   string `json:"genres" validate:"max=255,genres"`
	Overview string `json:"overview" validate:"max=10000"`
}

// RatingRequest is the body of POST /api/ratings.
type RatingRequest struct {
	MovieID int `json:"movie_id" validate:"required,min=1"`
	Score   int `json:"score" validate:"required,min=1,max=5"`
}

// MovieListParams are the query parameters of GET /api/movies.
type MovieListParams struct {
	Query string `query:"q" validate:"max=255"`
	Year  int    `query:"year" validate:"omitempty,min=1870,max=2100"`
	Genre string `query:"genre" validate:"max=64"`
	Page  int    `query:"page" validate:"min=1"`
	Size  int    `query:"size" validate:"min=1,max=100"`
}

// ContentRecommendParams are the query parameters of
// GET /api/recommendations/content.
type ContentRecommendParams struct {
	TopN int `query:"top_n" validate:"min=1"`
}

// CollaborativeRecommendParams are the query parameters of
// GET /api/recommendations/cf.
type CollaborativeRecommendParams struct {
	K    int `query:"k" validate:"min=1"`
	TopN int `query:"top_n" validate:"min=1"`
}
