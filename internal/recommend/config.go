// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Content contains parameters for the content-based recommender.
	Content ContentConfig `json:"content"`

	// Limits contains request parameter bounds.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// ContentConfig contains parameters for content-based filtering.
type ContentConfig struct {
	// EnableOverviewText appends the synopsis to the genre tokens of each
	// item document. When false only genres are vectorized.
	// Default: true.
	EnableOverviewText bool `json:"enable_overview_text"`

	// MaxFeatures caps the TF-IDF vocabulary size.
	// Default: 8000.
	MaxFeatures int `json:"max_features"`
}

// LimitsConfig bounds the caller-supplied parameters.
type LimitsConfig struct {
	// DefaultTopN is used when a caller omits top_n.
	// Default: 20.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the largest accepted top_n.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`

	// DefaultK is used when a caller omits k.
	// Default: 20.
	DefaultK int `json:"default_k"`

	// MaxK is the largest accepted neighbor count.
	// Default: 100.
	MaxK int `json:"max_k"`

	// Timeout bounds a single recommendation call including data fetches.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether results are cached. Caching only applies
	// when the data provider reports a corpus version.
	// Default: false.
	Enabled bool `json:"enabled"`

	// TTL is how long a cached result lives.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			EnableOverviewText: true,
			MaxFeatures:        DefaultMaxFeatures,
		},
		Limits: LimitsConfig{
			DefaultTopN: 20,
			MaxTopN:     100,
			DefaultK:    20,
			MaxK:        100,
			Timeout:     30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Content.MaxFeatures <= 0 {
		return fmt.Errorf("content.max_features must be positive, got %d", c.Content.MaxFeatures)
	}
	if c.Limits.MaxTopN <= 0 {
		return fmt.Errorf("limits.max_top_n must be positive, got %d", c.Limits.MaxTopN)
	}
	if c.Limits.DefaultTopN <= 0 || c.Limits.DefaultTopN > c.Limits.MaxTopN {
		return fmt.Errorf("limits.default_top_n must be in [1, %d], got %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.MaxK <= 0 {
		return fmt.Errorf("limits.max_k must be positive, got %d", c.Limits.MaxK)
	}
	if c.Limits.DefaultK <= 0 || c.Limits.DefaultK > c.Limits.MaxK {
		return fmt.Errorf("limits.default_k must be in [1, %d], got %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.Timeout < 0 {
		return fmt.Errorf("limits.timeout must be non-negative, got %s", c.Limits.Timeout)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %s", c.Cache.TTL)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
