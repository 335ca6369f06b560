// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"

	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
)

// EventPublisher publishes corpus change events. events.Publisher
// satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, e *events.ChangeEvent) error
}

// SetEventPublisher enables change events after successful writes. backend
// names the transport for /health. Passing nil disables publishing.
func (h *Handler) SetEventPublisher(publisher EventPublisher, backend string) {
	h.publisher = publisher
	h.eventsBackend = backend
}

// publishChange announces a completed write. The write has already been
// committed, so failures are logged and never reach the client.
func (h *Handler) publishChange(ctx context.Context, kind events.Kind, userID, movieID int) {
	if h.publisher == nil {
		return
	}

	version, err := h.db.CorpusVersion(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("corpus version unavailable for change event")
	}

	event := events.NewChangeEvent(kind, userID, movieID, version)
	if err := h.publisher.Publish(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("kind", string(kind)).
			Str("event_id", event.EventID).
			Msg("failed to publish change event")
	}
}
