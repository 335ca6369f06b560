// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package cache stores computed recommendation results in BadgerDB.
//
// Keys are produced by recommend.CacheKey and embed the corpus version, so
// a write to movies or ratings makes every older entry unreachable. Entries
// also carry a TTL, and Purge drops everything at once when the change
// event stream reports a write.
//
// The cache runs in memory when no path is configured. A directory path
// keeps results across restarts.
//
// Usage:
//
//	c, err := cache.Open(&cfg.Cache)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	engine, err := recommend.NewEngine(recCfg, provider, logger, recommend.WithCache(c))
package cache
