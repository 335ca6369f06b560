// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

func scanRating(s scanner) (models.Rating, error) {
	var r models.Rating
	err := s.Scan(&r.ID, &r.UserID, &r.MovieID, &r.Score, &r.Title, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func scanRecommendRating(s scanner) (recommend.Rating, error) {
	var r recommend.Rating
	err := s.Scan(&r.UserID, &r.ItemID, &r.Score)
	return r, err
}

// UpsertRating creates or replaces the user's rating of a movie. A second
// rating of the same movie overwrites the score and refreshes updated_at.
// ErrNotFound is returned when the movie does not exist.
func (db *DB) UpsertRating(ctx context.Context, userID, movieID, score int) (rating *models.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("upsert", "ratings", start, err) }(time.Now())

	err = db.inWriteTx(ctx, true, func(tx *sql.Tx) error {
		var title string
		err := tx.QueryRowContext(ctx, `SELECT title FROM movies WHERE id = ?`, movieID).Scan(&title)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lookup movie: %w", err)
		}

		r := models.Rating{Title: title}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO ratings (user_id, movie_id, score)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id, movie_id)
			DO UPDATE SET score = excluded.score, updated_at = now()
			RETURNING id, user_id, movie_id, score, created_at, updated_at`,
			userID, movieID, score).
			Scan(&r.ID, &r.UserID, &r.MovieID, &r.Score, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}
		rating = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// ListUserRatings returns a user's ratings, most recently updated first.
func (db *DB) ListUserRatings(ctx context.Context, userID int) (ratings []models.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "ratings", start, err) }(time.Now())

	ratings, err = queryAndScan(ctx, db.conn, `
		SELECT r.id, r.user_id, r.movie_id, r.score, COALESCE(m.title, ''), r.created_at, r.updated_at
		FROM ratings r
		LEFT JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = ?
		ORDER BY r.updated_at DESC, r.id DESC`, []interface{}{userID}, scanRating)
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}
	return ratings, nil
}

// DeleteRating removes the user's rating of movieID.
func (db *DB) DeleteRating(ctx context.Context, userID, movieID int) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("delete", "ratings", start, err) }(time.Now())

	return db.inWriteTx(ctx, true, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE user_id = ? AND movie_id = ?`, userID, movieID)
		if err != nil {
			return fmt.Errorf("delete rating: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete rating: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("rating of movie %d: %w", movieID, ErrNotFound)
		}
		return nil
	})
}

// AllRatings returns every rating as recommender input.
func (db *DB) AllRatings(ctx context.Context) (ratings []recommend.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "ratings", start, err) }(time.Now())

	ratings, err = queryAndScan(ctx, db.conn,
		`SELECT user_id, movie_id, score FROM ratings ORDER BY user_id, movie_id`, nil, scanRecommendRating)
	if err != nil {
		return nil, fmt.Errorf("all ratings: %w", err)
	}
	return ratings, nil
}

// RatingsForUser returns a single user's ratings as recommender input.
func (db *DB) RatingsForUser(ctx context.Context, userID int) (ratings []recommend.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "ratings", start, err) }(time.Now())

	ratings, err = queryAndScan(ctx, db.conn,
		`SELECT user_id, movie_id, score FROM ratings WHERE user_id = ? ORDER BY movie_id`,
		[]interface{}{userID}, scanRecommendRating)
	if err != nil {
		return nil, fmt.Errorf("ratings for user: %w", err)
	}
	return ratings, nil
}
