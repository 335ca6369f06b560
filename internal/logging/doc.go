// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging provides centralized zerolog-based logging for Cinematch.
//
// A single global logger is configured at startup from the LOG_LEVEL and
// LOG_FORMAT settings and shared by every package:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//
// Request-scoped logging carries the request ID assigned by the API
// middleware:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("rating rejected")
//
// Adapters bridge zerolog to libraries that bring their own logging
// interface: SlogHandler for slog consumers such as sutureslog, and
// WatermillAdapter for the event publisher and subscriber.
//
// SecurityLogger records authentication events with e-mail addresses and
// tokens masked.
package logging
