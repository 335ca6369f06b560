// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package authz provides role-based authorization using Casbin.
//
// Subjects are role names taken from the authenticated caller's claims.
// Objects are logical resources (movies, ratings, recommendations) and
// actions are read, write or delete. The admin role inherits every user
// permission and may also write movies.
//
// The model and default policy are embedded. A policy file on disk can
// replace the default policy.
package authz
