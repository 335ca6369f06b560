// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/events"
)

func TestBuildEngineConfig(t *testing.T) {
	cfg := &config.Config{
		Recommend: config.RecommendConfig{
			EnableTFIDF: false,
			MaxFeatures: 500,
			DefaultTopN: 5,
			MaxTopN:     50,
			DefaultK:    7,
			Timeout:     3 * time.Second,
		},
		Cache: config.CacheConfig{Enabled: true, TTL: time.Minute},
	}

	got := buildEngineConfig(cfg)
	if got.Content.EnableOverviewText || got.Content.MaxFeatures != 500 {
		t.Errorf("content = %+v", got.Content)
	}
	if got.Limits.DefaultTopN != 5 || got.Limits.MaxTopN != 50 || got.Limits.DefaultK != 7 || got.Limits.Timeout != 3*time.Second {
		t.Errorf("limits = %+v", got.Limits)
	}
	if got.Limits.MaxK != 100 {
		t.Errorf("unset MaxK = %d, want default 100", got.Limits.MaxK)
	}
	if !got.Cache.Enabled || got.Cache.TTL != time.Minute {
		t.Errorf("cache = %+v", got.Cache)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuildBreakerConfig(t *testing.T) {
	cfg := &config.Config{Recommend: config.RecommendConfig{BreakerTimeout: 5 * time.Second}}

	got := buildBreakerConfig(cfg)
	if got.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", got.Timeout)
	}
	if got.FailureRatio != 0.6 {
		t.Errorf("unset FailureRatio = %v, want default 0.6", got.FailureRatio)
	}
}

type countingPurger struct{ purges atomic.Int32 }

func (p *countingPurger) Purge() error {
	p.purges.Add(1)
	return nil
}

func TestInitEvents_MemoryBackendPurgesOnChange(t *testing.T) {
	purger := &countingPurger{}
	components, err := initEvents(&config.EventsConfig{Backend: config.EventsBackendMemory}, purger, zerolog.Nop())
	if err != nil {
		t.Fatalf("initEvents: %v", err)
	}
	defer components.Close()

	if components.Invalidator == nil {
		t.Fatal("invalidator should be created when a purger is given")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = components.Invalidator.Run(ctx)
	}()

	// GoChannel drops messages published before a subscription exists.
	deadline := time.Now().Add(2 * time.Second)
	for purger.purges.Load() == 0 && time.Now().Before(deadline) {
		if err := components.Publisher.Publish(ctx, events.NewChangeEvent(events.KindRatingUpserted, 1, 2, "3")); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if purger.purges.Load() == 0 {
		t.Error("change event did not purge the cache")
	}

	cancel()
	<-done
}

func TestInitEvents_NoPurger(t *testing.T) {
	components, err := initEvents(&config.EventsConfig{Backend: config.EventsBackendMemory}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("initEvents: %v", err)
	}
	defer components.Close()

	if components.Invalidator != nil {
		t.Error("invalidator should be nil without a purger")
	}
	if components.Bus.Backend() != config.EventsBackendMemory {
		t.Errorf("backend = %q", components.Bus.Backend())
	}
}
