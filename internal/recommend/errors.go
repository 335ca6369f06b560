// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is matched by every parameter rejection.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrProviderUnavailable is returned while the data provider's circuit
	// breaker is open.
	ErrProviderUnavailable = errors.New("recommendation data provider unavailable")
)

// InvalidParameterError describes a rejected request parameter.
type InvalidParameterError struct {
	Name  string
	Value int
	Min   int
	Max   int
}

// Error implements error.
func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Name, e.Min, e.Max, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// checkRange returns an InvalidParameterError when value is outside [lo, hi].
func checkRange(name string, value, lo, hi int) error {
	if value < lo || value > hi {
		return &InvalidParameterError{Name: name, Value: value, Min: lo, Max: hi}
	}
	return nil
}
