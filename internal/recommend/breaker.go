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

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// BreakerConfig configures the data provider circuit breaker.
type BreakerConfig struct {
	// Name labels metrics and logs. Default: "recommend-provider".
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	// Default: 3.
	MaxRequests uint32

	// Interval resets the failure counts while closed. Default: 1m.
	Interval time.Duration

	// Timeout is how long the breaker stays open. Default: 30s.
	Timeout time.Duration

	// MinRequests is the sample size required before tripping. Default: 5.
	MinRequests uint32

	// FailureRatio trips the breaker once reached. Default: 0.6.
	FailureRatio float64
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "recommend-provider",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// BreakerProvider decorates a DataProvider with a circuit breaker so a
// failing store is shed quickly instead of stalling every request.
// Context cancellation is not counted as a store failure.
type BreakerProvider struct {
	inner DataProvider
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

var (
	_ DataProvider    = (*BreakerProvider)(nil)
	_ CorpusVersioner = (*BreakerProvider)(nil)
)

// NewBreakerProvider wraps inner with a circuit breaker.
//
//nolint:gocritic // BreakerConfig is a small value type
func NewBreakerProvider(inner DataProvider, cfg BreakerConfig) *BreakerProvider {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = def.FailureRatio
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return &BreakerProvider{inner: inner, cb: cb, name: cfg.Name}
}

// State returns the current breaker state.
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

// FetchAllItems implements DataProvider.
func (b *BreakerProvider) FetchAllItems(ctx context.Context) ([]Item, error) {
	return guarded(b, func() ([]Item, error) { return b.inner.FetchAllItems(ctx) })
}

// FetchAllRatings implements DataProvider.
func (b *BreakerProvider) FetchAllRatings(ctx context.Context) ([]Rating, error) {
	return guarded(b, func() ([]Rating, error) { return b.inner.FetchAllRatings(ctx) })
}

// FetchRatingsForUser implements DataProvider.
func (b *BreakerProvider) FetchRatingsForUser(ctx context.Context, userID int) ([]Rating, error) {
	return guarded(b, func() ([]Rating, error) { return b.inner.FetchRatingsForUser(ctx, userID) })
}

// FetchItemsByIDs implements DataProvider.
func (b *BreakerProvider) FetchItemsByIDs(ctx context.Context, ids []int) ([]Item, error) {
	return guarded(b, func() ([]Item, error) { return b.inner.FetchItemsByIDs(ctx, ids) })
}

// CorpusVersion forwards to the wrapped provider. It returns "" when the
// wrapped provider has no versions, which disables result caching.
func (b *BreakerProvider) CorpusVersion(ctx context.Context) (string, error) {
	versioner, ok := b.inner.(CorpusVersioner)
	if !ok {
		return "", nil
	}
	return guarded(b, func() (string, error) { return versioner.CorpusVersion(ctx) })
}

// guarded runs fn through the breaker and restores its static type.
func guarded[T any](b *BreakerProvider, fn func() (T, error)) (T, error) {
	var zero T
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return zero, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return zero, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()

	typed, ok := out.(T)
	if !ok && out != nil {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", out)
	}
	return typed, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
