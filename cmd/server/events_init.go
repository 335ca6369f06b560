// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
)

// EventComponents holds the change event bus and its endpoints.
type EventComponents struct {
	Bus       *events.Bus
	Publisher *events.Publisher

	// Invalidator is nil when there is no result cache to purge.
	Invalidator *events.Invalidator
}

// Close closes the bus, including the embedded server if one was started.
func (c *EventComponents) Close() error {
	return c.Bus.Close()
}

// initEvents connects the configured backend. The invalidator is created
// only when purger is non-nil.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(cfg *config.EventsConfig, purger events.Purger, logger zerolog.Logger) (*EventComponents, error) {
	adapter := logging.NewWatermillAdapter(logger)

	bus, err := events.NewBus(cfg, adapter)
	if err != nil {
		return nil, err
	}

	components := &EventComponents{
		Bus:       bus,
		Publisher: events.NewPublisher(bus.Publisher()),
	}
	if purger != nil {
		components.Invalidator = events.NewInvalidator(bus.Subscriber(), purger, adapter)
	}

	logger.Info().Str("backend", bus.Backend()).Bool("invalidator", purger != nil).Msg("change events ready")
	return components, nil
}
