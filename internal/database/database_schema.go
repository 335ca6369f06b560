// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS ratings_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		email VARCHAR NOT NULL UNIQUE,
		password_hash VARCHAR NOT NULL,
		role VARCHAR NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY,
		title VARCHAR NOT NULL,
		year INTEGER,
		genres VARCHAR,
		overview VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		id BIGINT PRIMARY KEY DEFAULT nextval('ratings_id_seq'),
		user_id INTEGER NOT NULL,
		movie_id INTEGER NOT NULL,
		score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		UNIQUE (user_id, movie_id)
	)`,

	`CREATE TABLE IF NOT EXISTS corpus_state (
		id INTEGER PRIMARY KEY,
		instance_id VARCHAR NOT NULL,
		version BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies (title)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings (movie_id)`,
}

// initialize creates tables, indexes and the corpus_state row. The row's
// instance_id is a random UUID fixed when the database file is created, so two
// databases that reach the same version counter still report different
// corpus versions.
func (db *DB) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO corpus_state (id, instance_id, version) VALUES (1, ?, 1) ON CONFLICT DO NOTHING`,
		uuid.NewString())
	if err != nil {
		return fmt.Errorf("seed corpus_state: %w", err)
	}
	return nil
}
