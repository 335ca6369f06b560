// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package database is the DuckDB-backed store for users, movies and
// ratings.
//
// # Schema
//
//	users(id, email UNIQUE, password_hash, role, created_at)
//	movies(id, title, year, genres, overview, created_at)
//	ratings(id, user_id, movie_id, score 1..5, created_at, updated_at,
//	        UNIQUE(user_id, movie_id))
//	corpus_state(id, instance_id, version)
//
// # Corpus Version
//
// Every write to movies or ratings increments corpus_state.version in the
// same transaction. The recommendation engine keys its result cache on
// this version, so a cached result is never served after the data it was
// computed from changed. CorpusVersion reports it prefixed with
// corpus_state.instance_id, a UUID chosen when the file is created, so a
// persistent cache cannot match results computed against an earlier
// database that happened to reach the same counter.
//
// # Concurrency
//
// DuckDB uses optimistic concurrency control, and every write touches the
// corpus_state row. Writes are therefore serialized through a mutex while
// reads run concurrently.
//
// # Recommendation Data
//
// Provider adapts the store to recommend.DataProvider and
// recommend.CorpusVersioner.
package database
