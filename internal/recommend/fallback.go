// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "fmt"

// FallbackReason names the cold-start condition that sent a call to the
// popularity ranking.
type FallbackReason int

const (
	// FallbackNone means the primary strategy produced the ranking.
	FallbackNone FallbackReason = iota

	// FallbackNoRatings means the user has not rated anything.
	FallbackNoRatings

	// FallbackNoPositiveSignal means none of the user's ratings of
	// catalogue items is above the neutral score.
	FallbackNoPositiveSignal

	// FallbackAbsentFromMatrix means the user does not appear in the
	// preference matrix built from the current rating set.
	FallbackAbsentFromMatrix

	// FallbackEmptyPredictions means collaborative filtering produced no
	// positive prediction for any unseen item.
	FallbackEmptyPredictions
)

// String returns the label used in logs, metrics and API metadata.
func (r FallbackReason) String() string {
	switch r {
	case FallbackNone:
		return "none"
	case FallbackNoRatings:
		return "no_ratings"
	case FallbackNoPositiveSignal:
		return "no_positive_signal"
	case FallbackAbsentFromMatrix:
		return "absent_from_matrix"
	case FallbackEmptyPredictions:
		return "empty_predictions"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// MarshalText encodes the reason as its label.
func (r FallbackReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (r *FallbackReason) UnmarshalText(text []byte) error {
	for _, candidate := range allFallbackReasons {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown fallback reason %q", string(text))
}

var allFallbackReasons = []FallbackReason{
	FallbackNone,
	FallbackNoRatings,
	FallbackNoPositiveSignal,
	FallbackAbsentFromMatrix,
	FallbackEmptyPredictions,
}

// condition is one named step of a cold-start decision sequence.
type condition struct {
	reason FallbackReason
	holds  func() bool
}

// firstFallback evaluates conditions in order and returns the reason of the
// first one that holds, or FallbackNone.
func firstFallback(conditions ...condition) FallbackReason {
	for _, c := range conditions {
		if c.holds() {
			return c.reason
		}
	}
	return FallbackNone
}
