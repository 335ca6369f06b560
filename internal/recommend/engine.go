// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Engine answers recommendation requests over the corpus supplied by a
// DataProvider. Every call recomputes from the provider's current data;
// the only reuse across calls is the optional result cache, keyed on the
// provider's corpus version.
type Engine struct {
	config   *Config
	provider DataProvider
	logger   zerolog.Logger

	content       *ContentBased
	collaborative *Collaborative

	cache ResultCache
	now   func() time.Time
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithCache enables result caching through c. The cache is consulted only
// when Config.Cache.Enabled is true and the provider implements
// CorpusVersioner.
func WithCache(c ResultCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithClock overrides the time source used for timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, provider DataProvider, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("data provider is required")
	}

	e := &Engine{
		config:        cfg.Clone(),
		provider:      provider,
		logger:        logger.With().Str("component", "recommend").Logger(),
		content:       NewContentBased(NewVectorizer(cfg.Content.MaxFeatures), cfg.Content.EnableOverviewText),
		collaborative: NewCollaborative(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// RecommendContentBased returns up to topN unseen items ranked by TF-IDF
// similarity to the user's liked items, or the popularity ranking when
// the user has no usable signal.
func (e *Engine) RecommendContentBased(ctx context.Context, userID, topN int) (*Result, error) {
	if err := checkRange("top_n", topN, 1, e.config.Limits.MaxTopN); err != nil {
		return nil, err
	}
	return e.run(ctx, StrategyContent, userID, 0, topN, func(ctx context.Context) ([]Recommendation, FallbackReason, error) {
		return e.contentBased(ctx, userID, topN)
	})
}

// RecommendCollaborative returns up to topN unseen items ranked by
// user-KNN predictions over k neighbors, or the popularity ranking when
// the user has no usable signal.
func (e *Engine) RecommendCollaborative(ctx context.Context, userID, k, topN int) (*Result, error) {
	if err := checkRange("k", k, 1, e.config.Limits.MaxK); err != nil {
		return nil, err
	}
	if err := checkRange("top_n", topN, 1, e.config.Limits.MaxTopN); err != nil {
		return nil, err
	}
	return e.run(ctx, StrategyCollaborative, userID, k, topN, func(ctx context.Context) ([]Recommendation, FallbackReason, error) {
		return e.collaborativeFiltering(ctx, userID, k, topN)
	})
}

type computeFunc func(ctx context.Context) ([]Recommendation, FallbackReason, error)

// run wraps a strategy with the timeout, cache lookup, timing log and
// metrics shared by both strategies.
func (e *Engine) run(ctx context.Context, strategy Strategy, userID, k, topN int, compute computeFunc) (*Result, error) {
	start := e.now()
	if e.config.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Limits.Timeout)
		defer cancel()
	}

	log := e.requestLogger(ctx, strategy, userID)

	version := e.corpusVersion(ctx, log)
	key := ""
	if version != "" {
		key = CacheKey(strategy, userID, k, topN, version)
		if cached, ok := e.cache.Get(ctx, key); ok {
			cached.CacheHit = true
			cached.Elapsed = e.now().Sub(start)
			e.logTiming(log, cached)
			metrics.RecordRecommendation(strategy.String(), cached.Fallback.String(), cached.Elapsed, true)
			return cached, nil
		}
		metrics.RecordCacheMiss()
	}

	items, reason, err := compute(ctx)
	if err != nil {
		metrics.RecordRecommendationError(strategy.String())
		log.Error().Err(err).Msg("recommendation failed")
		return nil, err
	}

	result := &Result{
		Strategy:      strategy,
		Items:         items,
		Fallback:      reason,
		CorpusVersion: version,
		Elapsed:       e.now().Sub(start),
	}
	if key != "" {
		if err := e.cache.Set(ctx, key, result); err != nil {
			log.Warn().Err(err).Msg("failed to cache recommendation result")
		}
	}

	e.logTiming(log, result)
	metrics.RecordRecommendation(strategy.String(), reason.String(), result.Elapsed, false)
	return result, nil
}

// contentBased runs the content strategy and resolves its fallback.
func (e *Engine) contentBased(ctx context.Context, userID, topN int) ([]Recommendation, FallbackReason, error) {
	items, err := e.provider.FetchAllItems(ctx)
	if err != nil {
		return nil, FallbackNone, fmt.Errorf("fetch all items: %w", err)
	}
	if len(items) == 0 {
		return []Recommendation{}, FallbackNone, nil
	}

	userRatings, err := e.provider.FetchRatingsForUser(ctx, userID)
	if err != nil {
		return nil, FallbackNone, fmt.Errorf("fetch ratings for user %d: %w", userID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, FallbackNone, err
	}

	recs, reason := e.content.Recommend(items, userRatings, topN)
	if reason == FallbackNone {
		return recs, FallbackNone, nil
	}

	ratings, err := e.provider.FetchAllRatings(ctx)
	if err != nil {
		return nil, reason, fmt.Errorf("fetch all ratings: %w", err)
	}
	return Popular(items, ratings, userID, topN), reason, nil
}

// collaborativeFiltering runs the collaborative strategy and resolves its
// fallback.
func (e *Engine) collaborativeFiltering(ctx context.Context, userID, k, topN int) ([]Recommendation, FallbackReason, error) {
	ratings, err := e.provider.FetchAllRatings(ctx)
	if err != nil {
		return nil, FallbackNone, fmt.Errorf("fetch all ratings: %w", err)
	}
	if len(ratings) == 0 {
		return []Recommendation{}, FallbackNone, nil
	}

	preds, reason := e.collaborative.Predict(ratings, userID, k)
	if reason == FallbackNone {
		titled, err := e.provider.FetchItemsByIDs(ctx, PredictionIDs(preds))
		if err != nil {
			return nil, FallbackNone, fmt.Errorf("fetch items by ids: %w", err)
		}
		recs := Titled(preds, titled, topN)
		if len(recs) > 0 {
			return recs, FallbackNone, nil
		}
		reason = FallbackEmptyPredictions
	}

	items, err := e.provider.FetchAllItems(ctx)
	if err != nil {
		return nil, reason, fmt.Errorf("fetch all items: %w", err)
	}
	return Popular(items, ratings, userID, topN), reason, nil
}

// corpusVersion returns the provider's corpus version when caching is
// active, or "" to bypass the cache.
func (e *Engine) corpusVersion(ctx context.Context, log *zerolog.Logger) string {
	if e.cache == nil || !e.config.Cache.Enabled {
		return ""
	}
	versioner, ok := e.provider.(CorpusVersioner)
	if !ok {
		return ""
	}
	version, err := versioner.CorpusVersion(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("corpus version unavailable, bypassing cache")
		return ""
	}
	return version
}

// requestLogger returns a logger carrying the request ID from ctx.
func (e *Engine) requestLogger(ctx context.Context, strategy Strategy, userID int) *zerolog.Logger {
	builder := e.logger.With().
		Str("strategy", strategy.String()).
		Int("user_id", userID)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		builder = builder.Str("request_id", requestID)
	}
	l := builder.Logger()
	return &l
}

func (e *Engine) logTiming(log *zerolog.Logger, r *Result) {
	log.Info().
		Float64("elapsed_ms", float64(r.Elapsed.Microseconds())/1000).
		Str("fallback", r.Fallback.String()).
		Int("items", len(r.Items)).
		Bool("cache_hit", r.CacheHit).
		Msg("recommender timing")
}

// CacheKey identifies a result computed for the given parameters over one
// corpus version.
func CacheKey(strategy Strategy, userID, k, topN int, version string) string {
	return fmt.Sprintf("%s|u%d|k%d|n%d|v%s", strategy, userID, k, topN, version)
}
