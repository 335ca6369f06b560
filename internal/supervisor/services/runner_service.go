// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"fmt"
)

// Runner matches components that block in Run until ctx is canceled.
//
// Satisfied by *events.Invalidator.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService wraps a Runner as a supervised service. A Run that returns
// before ctx is canceled is reported as a failure so suture restarts it.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService creates a Runner wrapper identified by name.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", s.name, err)
	}
	return fmt.Errorf("%s stopped unexpectedly", s.name)
}

// String implements fmt.Stringer for logging.
func (s *RunnerService) String() string {
	return s.name
}
