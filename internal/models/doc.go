// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package models defines the data types shared by the store and the HTTP
// API: users, movies, ratings, catalogue metrics, request payloads and the
// response envelope.
//
// Request types carry go-playground/validator tags that the API checks
// before any store access.
package models
