// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package events carries corpus change notifications over Watermill.
//
// Every successful write to the catalogue or to ratings publishes a
// ChangeEvent. The Invalidator consumes those events and purges the
// recommendation result cache, so a cached result computed from an older
// corpus is dropped as soon as the write is visible.
//
// # Backends
//
//   - memory: Watermill gochannel, in-process (default)
//   - nats: core NATS through watermill-nats against an external server
//   - embedded: an in-process nats-server, reached through watermill-nats
//
// Topics:
//
//	ratings.changed   rating created, replaced, deleted or imported
//	movies.changed    movie created or imported
package events
