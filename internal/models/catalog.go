// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "time"

// Roles assigned to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. PasswordHash is never serialized.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Movie is a catalogue entry. Genres is pipe-separated, e.g.
// "Action|Sci-Fi".
type Movie struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Year     *int   `json:"year"`
	Genres   string `json:"genres"`
	Overview string `json:"overview"`
}

// MovieSummary is a movie with its rating aggregates. AvgRating is nil
// for movies nobody rated.
type MovieSummary struct {
	Movie
	AvgRating   *float64 `json:"avg_rating"`
	RatingCount int      `json:"rating_count"`
}

// MovieFilter selects and pages the catalogue listing.
type MovieFilter struct {
	Query string // case-insensitive title substring
	Year  int    // exact release year, 0 = any
	Genre string // case-insensitive genre substring
	Page  int    // 1-based
	Size  int
}

// Rating is a user's score for a movie.
type Rating struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-"`
	MovieID   int       `json:"movie_id"`
	Score     int       `json:"score"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overview holds catalogue-wide counts.
type Overview struct {
	TotalUsers        int     `json:"total_users"`
	TotalMovies       int     `json:"total_movies"`
	TotalRatings      int     `json:"total_ratings"`
	AvgRatingsPerUser float64 `json:"avg_ratings_per_user"`
	CoveragePct       float64 `json:"coverage_pct"`
}

// ImportStats reports the rows loaded by a CSV import.
type ImportStats struct {
	Source   string        `json:"source"`
	Inserted int64         `json:"inserted"`
	Skipped  int64         `json:"skipped"`
	Duration time.Duration `json:"duration"`
}
