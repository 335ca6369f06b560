// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// resultKeyPrefix namespaces recommendation results in the badger keyspace.
const resultKeyPrefix = "rec:"

// defaultTTL applies when the configured TTL is not positive.
const defaultTTL = 10 * time.Minute

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")

// Stats tracks cache effectiveness.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Writes  int64   `json:"writes"`
	Purges  int64   `json:"purges"`
	Errors  int64   `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// ResultCache is a TTL cache of recommendation results.
type ResultCache struct {
	db     *badger.DB
	ttl    time.Duration
	closed atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
	purges atomic.Int64
	errs   atomic.Int64
}

var _ recommend.ResultCache = (*ResultCache)(nil)

// Open opens the badger store described by cfg. An empty path keeps all
// data in memory.
func Open(cfg *config.CacheConfig) (*ResultCache, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open result cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	logging.Info().Str("path", cfg.Path).Dur("ttl", ttl).Bool("in_memory", cfg.Path == "").
		Msg("Result cache ready")
	return &ResultCache{db: db, ttl: ttl}, nil
}

// Get returns the cached result for key. Decode failures count as misses.
func (c *ResultCache) Get(_ context.Context, key string) (*recommend.Result, bool) {
	if c.closed.Load() {
		return nil, false
	}

	var result recommend.Result
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(resultKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.errs.Add(1)
			logging.Debug().Err(err).Str("key", key).Msg("result cache read failed")
		}
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return &result, true
}

// Set stores result under key with the configured TTL. The result is
// serialized, so later changes to it do not affect the cached copy.
func (c *ResultCache) Set(_ context.Context, key string, result *recommend.Result) error {
	if c.closed.Load() {
		return ErrClosed
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.errs.Add(1)
		return fmt.Errorf("marshal result: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(resultKeyPrefix+key), data).WithTTL(c.ttl))
	})
	if err != nil {
		c.errs.Add(1)
		return fmt.Errorf("store result: %w", err)
	}
	c.writes.Add(1)
	return nil
}

// Purge removes every cached result.
func (c *ResultCache) Purge() error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.db.DropPrefix([]byte(resultKeyPrefix)); err != nil {
		c.errs.Add(1)
		return fmt.Errorf("purge results: %w", err)
	}
	c.purges.Add(1)
	metrics.RecordCachePurge()
	return nil
}

// RunGC reclaims value log space. It reports false when there was nothing
// to collect, which is always the case for an in-memory cache.
func (c *ResultCache) RunGC() (bool, error) {
	if c.closed.Load() {
		return false, ErrClosed
	}
	if c.db.Opts().InMemory {
		return false, nil
	}
	err := c.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("value log gc: %w", err)
	}
	return true, nil
}

// Stats returns a snapshot of the cache counters.
func (c *ResultCache) Stats() Stats {
	s := Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Writes: c.writes.Load(),
		Purges: c.purges.Load(),
		Errors: c.errs.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	}
	return s
}

// Close closes the underlying store. It is safe to call more than once.
func (c *ResultCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.db.Close()
}
