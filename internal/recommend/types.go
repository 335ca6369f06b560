// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"time"
)

// Item represents a movie in the catalogue as seen by the recommenders.
type Item struct {
	// ID is the unique, stable movie identifier.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Year is the release year (0 when unknown).
	Year int `json:"year,omitempty"`

	// Genres is the unordered set of genre tags.
	Genres []string `json:"genres,omitempty"`

	// Overview is the optional free-text synopsis.
	Overview string `json:"overview,omitempty"`
}

// Rating is an explicit user preference signal.
type Rating struct {
	// UserID identifies the rating user.
	UserID int `json:"user_id"`

	// ItemID identifies the rated movie.
	ItemID int `json:"item_id"`

	// Score is the integer rating in [1, 5].
	Score int `json:"score"`
}

// Recommendation is one ranked entry of a recommendation list.
type Recommendation struct {
	ItemID int     `json:"movie_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
}

// Strategy identifies which recommender produced a result.
type Strategy string

const (
	// StrategyContent ranks items by TF-IDF similarity to the user's taste vector.
	StrategyContent Strategy = "content"

	// StrategyCollaborative ranks items by user-user KNN predictions.
	StrategyCollaborative Strategy = "collaborative"
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	return string(s)
}

// Result is the outcome of a single recommendation call.
type Result struct {
	// Strategy is the requested strategy.
	Strategy Strategy `json:"strategy"`

	// Items is ordered by score descending and never contains rated items.
	Items []Recommendation `json:"items"`

	// Fallback names the cold-start condition that routed the call to the
	// popularity ranking. FallbackNone when the primary strategy answered.
	Fallback FallbackReason `json:"fallback"`

	// CorpusVersion is the store version the result was computed from.
	// Empty when the provider does not expose versions.
	CorpusVersion string `json:"corpus_version,omitempty"`

	// CacheHit reports whether the result was served from the result cache.
	CacheHit bool `json:"cache_hit"`

	// Elapsed is the wall time spent in the engine.
	Elapsed time.Duration `json:"-"`
}

// DataProvider supplies the corpus the engine computes over.
// Implementations return fresh data on every call; the engine never
// mutates returned slices.
type DataProvider interface {
	// FetchAllItems returns the full movie catalogue.
	FetchAllItems(ctx context.Context) ([]Item, error)

	// FetchAllRatings returns every rating in the store.
	FetchAllRatings(ctx context.Context) ([]Rating, error)

	// FetchRatingsForUser returns the ratings of a single user.
	FetchRatingsForUser(ctx context.Context, userID int) ([]Rating, error)

	// FetchItemsByIDs returns the movies with the given IDs. Unknown IDs
	// are silently skipped.
	FetchItemsByIDs(ctx context.Context, ids []int) ([]Item, error)
}

// CorpusVersioner is implemented by providers that can report a version
// which changes whenever movies or ratings change.
type CorpusVersioner interface {
	CorpusVersion(ctx context.Context) (string, error)
}

// ResultCache stores computed results keyed by strategy, parameters and
// corpus version.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Result, bool)
	Set(ctx context.Context, key string, result *Result) error
}
