// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

// Overview returns catalogue-wide counters. AvgRatingsPerUser is rounded
// to three decimals and CoveragePct, the share of movies with at least one
// rating, to two.
func (db *DB) Overview(ctx context.Context) (ov *models.Overview, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "overview", start, err) }(time.Now())

	var users, movies, ratings, rated int64
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM ratings),
			(SELECT COUNT(DISTINCT movie_id) FROM ratings)`).
		Scan(&users, &movies, &ratings, &rated)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	ov = &models.Overview{
		TotalUsers:   int(users),
		TotalMovies:  int(movies),
		TotalRatings: int(ratings),
	}
	if users > 0 {
		ov.AvgRatingsPerUser = round(float64(ratings)/float64(users), 3)
	}
	if movies > 0 {
		ov.CoveragePct = round(float64(rated)/float64(movies)*100, 2)
	}
	return ov, nil
}

// CorpusVersion returns "<instance>:<counter>". The counter is bumped by
// every catalogue or rating write and the instance ID identifies the database
// file, so a recreated database never repeats an earlier version.
// Cached recommendations are keyed on it.
func (db *DB) CorpusVersion(ctx context.Context) (version string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "corpus_state", start, err) }(time.Now())

	var instance string
	var v int64
	err = db.conn.QueryRowContext(ctx, `SELECT instance_id, version FROM corpus_state WHERE id = 1`).Scan(&instance, &v)
	if err != nil {
		return "", fmt.Errorf("corpus version: %w", err)
	}
	return instance + ":" + strconv.FormatInt(v, 10), nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
