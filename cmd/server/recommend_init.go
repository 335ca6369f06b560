// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// RecommendComponents holds the engine and the pieces wired around it.
type RecommendComponents struct {
	Engine *recommend.Engine

	// Breaker is nil when the circuit breaker is disabled.
	Breaker *recommend.BreakerProvider

	// Cache is nil when result caching is disabled.
	Cache *cache.ResultCache
}

// Close releases the result cache.
func (c *RecommendComponents) Close() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}

// initRecommend builds the engine over the database, optionally behind a
// circuit breaker and with a badger result cache.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*RecommendComponents, error) {
	logger.Info().
		Bool("tfidf_overview", cfg.Recommend.EnableTFIDF).
		Int("max_features", cfg.Recommend.MaxFeatures).
		Bool("breaker", cfg.Recommend.BreakerEnabled).
		Bool("cache", cfg.Cache.Enabled).
		Msg("initializing recommendation engine")

	components := &RecommendComponents{}

	var provider recommend.DataProvider = database.NewProvider(db)
	if cfg.Recommend.BreakerEnabled {
		components.Breaker = recommend.NewBreakerProvider(provider, buildBreakerConfig(cfg))
		provider = components.Breaker
	}

	var opts []recommend.Option
	if cfg.Cache.Enabled {
		resultCache, err := cache.Open(&cfg.Cache)
		if err != nil {
			return nil, err
		}
		components.Cache = resultCache
		opts = append(opts, recommend.WithCache(resultCache))
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), provider, logger, opts...)
	if err != nil {
		_ = components.Close()
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	components.Engine = engine
	return components, nil
}

// buildEngineConfig maps application settings onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Content.EnableOverviewText = cfg.Recommend.EnableTFIDF
	if cfg.Recommend.MaxFeatures > 0 {
		engineCfg.Content.MaxFeatures = cfg.Recommend.MaxFeatures
	}
	if cfg.Recommend.DefaultTopN > 0 {
		engineCfg.Limits.DefaultTopN = cfg.Recommend.DefaultTopN
	}
	if cfg.Recommend.MaxTopN > 0 {
		engineCfg.Limits.MaxTopN = cfg.Recommend.MaxTopN
	}
	if cfg.Recommend.DefaultK > 0 {
		engineCfg.Limits.DefaultK = cfg.Recommend.DefaultK
	}
	if cfg.Recommend.MaxK > 0 {
		engineCfg.Limits.MaxK = cfg.Recommend.MaxK
	}
	if cfg.Recommend.Timeout > 0 {
		engineCfg.Limits.Timeout = cfg.Recommend.Timeout
	}
	engineCfg.Cache.Enabled = cfg.Cache.Enabled
	if cfg.Cache.TTL > 0 {
		engineCfg.Cache.TTL = cfg.Cache.TTL
	}
	return engineCfg
}

func buildBreakerConfig(cfg *config.Config) recommend.BreakerConfig {
	breakerCfg := recommend.DefaultBreakerConfig()
	if cfg.Recommend.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.Recommend.BreakerTimeout
	}
	if cfg.Recommend.BreakerFailureRatio > 0 {
		breakerCfg.FailureRatio = cfg.Recommend.BreakerFailureRatio
	}
	return breakerCfg
}
