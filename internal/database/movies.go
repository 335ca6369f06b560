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

	"github.com/tomtom215/cinematch/internal/database/query"
	"github.com/tomtom215/cinematch/internal/models"
)

// Paging limits for ListMovies.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const movieColumns = `m.id, m.title, m.year, COALESCE(m.genres, ''), COALESCE(m.overview, '')`

func scanMovie(s scanner) (models.Movie, error) {
	var m models.Movie
	var year sql.NullInt64
	if err := s.Scan(&m.ID, &m.Title, &year, &m.Genres, &m.Overview); err != nil {
		return m, err
	}
	if year.Valid {
		y := int(year.Int64)
		m.Year = &y
	}
	return m, nil
}

func scanMovieSummary(s scanner) (models.MovieSummary, error) {
	var ms models.MovieSummary
	var year sql.NullInt64
	var avg sql.NullFloat64
	if err := s.Scan(&ms.ID, &ms.Title, &year, &ms.Genres, &ms.Overview, &avg, &ms.RatingCount); err != nil {
		return ms, err
	}
	if year.Valid {
		y := int(year.Int64)
		ms.Year = &y
	}
	if avg.Valid {
		a := avg.Float64
		ms.AvgRating = &a
	}
	return ms, nil
}

// CreateMovie inserts a movie and returns it with its assigned ID.
func (db *DB) CreateMovie(ctx context.Context, req *models.CreateMovieRequest) (movie *models.Movie, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("insert", "movies", start, err) }(time.Now())

	err = db.inWriteTx(ctx, true, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO movies (id, title, year, genres, overview)
			SELECT COALESCE(MAX(id), 0) + 1, ?, ?, ?, ? FROM movies
			RETURNING id, title, year, COALESCE(genres, ''), COALESCE(overview, '')`,
			req.Title, nullableInt(req.Year), req.Genres, req.Overview)
		m, err := scanMovie(row)
		if err != nil {
			return fmt.Errorf("insert movie: %w", err)
		}
		movie = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// GetMovie returns a movie with its rating aggregates.
func (db *DB) GetMovie(ctx context.Context, id int) (movie *models.MovieSummary, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "movies", start, err) }(time.Now())

	row := db.conn.QueryRowContext(ctx, `
		SELECT `+movieColumns+`, AVG(r.score), COUNT(r.id)
		FROM movies m
		LEFT JOIN ratings r ON r.movie_id = m.id
		WHERE m.id = ?
		GROUP BY m.id, m.title, m.year, m.genres, m.overview`, id)
	ms, err := scanMovieSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return &ms, nil
}

// ListMovies returns one page of the catalogue ordered by title, with
// rating aggregates. Query and Genre match case-insensitive substrings,
// so "Action" matches "Action|Sci-Fi".
func (db *DB) ListMovies(ctx context.Context, filter models.MovieFilter) (movies []models.MovieSummary, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "movies", start, err) }(time.Now())

	page, size := normalizePaging(filter.Page, filter.Size)

	wb := query.NewWhereBuilder().
		AddContains("m.title", filter.Query).
		AddEquals("m.year", filter.Year).
		AddContains("m.genres", filter.Genre)
	where, args := wb.Build()
	args = append(args, size, (page-1)*size)

	movies, err = queryAndScan(ctx, db.conn, `
		SELECT `+movieColumns+`, AVG(r.score), COUNT(r.id)
		FROM movies m
		LEFT JOIN ratings r ON r.movie_id = m.id
		`+where+`
		GROUP BY m.id, m.title, m.year, m.genres, m.overview
		ORDER BY m.title ASC, m.id ASC
		LIMIT ? OFFSET ?`, args, scanMovieSummary)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// AllMovies returns the full catalogue ordered by ID.
func (db *DB) AllMovies(ctx context.Context) (movies []models.Movie, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "movies", start, err) }(time.Now())

	movies, err = queryAndScan(ctx, db.conn,
		`SELECT `+movieColumns+` FROM movies m ORDER BY m.id`, nil, scanMovie)
	if err != nil {
		return nil, fmt.Errorf("all movies: %w", err)
	}
	return movies, nil
}

// MoviesByIDs returns the movies with the given IDs ordered by ID.
// Unknown IDs are skipped.
func (db *DB) MoviesByIDs(ctx context.Context, ids []int) (movies []models.Movie, err error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "movies", start, err) }(time.Now())

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	movies, err = queryAndScan(ctx, db.conn,
		`SELECT `+movieColumns+` FROM movies m WHERE m.id IN (`+query.Placeholders(len(ids))+`) ORDER BY m.id`,
		args, scanMovie)
	if err != nil {
		return nil, fmt.Errorf("movies by ids: %w", err)
	}
	return movies, nil
}

// normalizePaging applies the default and maximum page size and a
// minimum page of 1.
func normalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
