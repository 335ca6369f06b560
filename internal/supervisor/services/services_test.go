// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func TestServiceInterfaces(t *testing.T) {
	var _ suture.Service = (*RunnerService)(nil)
	var _ suture.Service = (*PeriodicService)(nil)
}

func TestRunnerService_Serve(t *testing.T) {
	t.Run("returns context error on cancellation", func(t *testing.T) {
		svc := NewRunnerService("invalidator", runnerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Serve did not return")
		}
	})

	t.Run("wraps runner error", func(t *testing.T) {
		boom := errors.New("subscribe failed")
		svc := NewRunnerService("invalidator", runnerFunc(func(context.Context) error { return boom }))

		err := svc.Serve(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})

	t.Run("early return is a failure", func(t *testing.T) {
		svc := NewRunnerService("invalidator", runnerFunc(func(context.Context) error { return nil }))

		err := svc.Serve(context.Background())
		if err == nil || !strings.Contains(err.Error(), "stopped unexpectedly") {
			t.Errorf("expected unexpected stop error, got %v", err)
		}
	})

	if got := NewRunnerService("invalidator", nil).String(); got != "invalidator" {
		t.Errorf("String() = %q", got)
	}
}

func TestPeriodicService_Serve(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 8)
	svc := NewPeriodicService("cache-gc", 5*time.Millisecond, func(context.Context) error {
		n := runs.Add(1)
		ran <- struct{}{}
		if n == 1 {
			return errors.New("first run fails")
		}
		return nil
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatalf("task ran %d times, want at least 3", runs.Load())
		}
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return")
	}
	if svc.String() != "cache-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestNewPeriodicService_DefaultInterval(t *testing.T) {
	svc := NewPeriodicService("cleanup", 0, func(context.Context) error { return nil }, zerolog.Nop())
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
}
