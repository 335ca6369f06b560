// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics.
const (
	TopicRatings = "ratings.changed"
	TopicMovies  = "movies.changed"
)

// Topics lists every topic the invalidator listens on.
var Topics = []string{TopicRatings, TopicMovies}

// Kind describes the write that produced an event.
type Kind string

// Event kinds.
const (
	KindRatingUpserted  Kind = "rating.upserted"
	KindRatingDeleted   Kind = "rating.deleted"
	KindRatingsImported Kind = "ratings.imported"
	KindMovieCreated    Kind = "movie.created"
	KindMoviesImported  Kind = "movies.imported"
)

// ChangeEvent announces a corpus write.
type ChangeEvent struct {
	EventID       string    `json:"event_id"`
	Kind          Kind      `json:"kind"`
	UserID        int       `json:"user_id,omitempty"`
	MovieID       int       `json:"movie_id,omitempty"`
	CorpusVersion string    `json:"corpus_version,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewChangeEvent returns an event of kind with a fresh ID.
func NewChangeEvent(kind Kind, userID, movieID int, corpusVersion string) *ChangeEvent {
	return &ChangeEvent{
		EventID:       uuid.New().String(),
		Kind:          kind,
		UserID:        userID,
		MovieID:       movieID,
		CorpusVersion: corpusVersion,
		OccurredAt:    time.Now().UTC(),
	}
}

// ValidationError reports a malformed event.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("event %s: %s", e.Field, e.Message)
}

// Validate checks required fields.
func (e *ChangeEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.Topic() == "" {
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", e.Kind)}
	}
	if e.OccurredAt.IsZero() {
		return &ValidationError{Field: "occurred_at", Message: "required"}
	}
	return nil
}

// Topic returns the topic the event is published on, or "" for an
// unknown kind.
func (e *ChangeEvent) Topic() string {
	switch e.Kind {
	case KindRatingUpserted, KindRatingDeleted, KindRatingsImported:
		return TopicRatings
	case KindMovieCreated, KindMoviesImported:
		return TopicMovies
	default:
		return ""
	}
}

// Marshal validates and encodes an event.
func Marshal(e *ChangeEvent) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes an event payload.
func Unmarshal(data []byte) (*ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}
