// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package api provides the HTTP layer: a chi router, JSON handlers for
// auth, movies, ratings, recommendations and catalogue metrics, and the
// middleware stack around them.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor
//   - handlers_helpers.go: response envelope, decoding and parameter parsing
//   - handlers_auth.go: signup and login
//   - handlers_movies.go: catalogue listing, lookup and creation
//   - handlers_ratings.go: rating upsert, listing and deletion
//   - handlers_recommend.go: content-based and collaborative recommendations
//   - handlers_health.go: health and catalogue overview
//
// Every JSON response uses the models.APIResponse envelope:
//
//	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "request_id": ...}}
package api
