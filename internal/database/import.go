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
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// ImportedPasswordHash is stored for placeholder users created by
// ImportRatingsCSV. It is not a valid bcrypt hash, so those accounts
// cannot log in.
const ImportedPasswordHash = "!"

// ImportMoviesCSV loads a movies CSV. Two layouts are accepted: the
// MovieLens movieId,title,genres and title,year,genres,overview. When a
// movieId column is present it becomes the movie ID, so a ratings.csv
// from the same dataset lines up, and a repeated ID updates the movie.
// Otherwise IDs continue from the current maximum. A missing or invalid
// year is taken from a trailing "(YYYY)" in the title. Rows without a
// title are skipped.
func (db *DB) ImportMoviesCSV(ctx context.Context, path string) (stats *models.ImportStats, err error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("import", "movies", start, err) }(time.Now())

	start := time.Now()
	src := csvSource(path)
	stats = &models.ImportStats{Source: path}

	err = db.inWriteTx(ctx, true, func(tx *sql.Tx) error {
		cols, err := csvColumns(ctx, tx, src)
		if err != nil {
			return err
		}
		title, ok := cols["title"]
		if !ok {
			return fmt.Errorf("movies csv %s: missing title column", path)
		}

		var total int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+src).Scan(&total); err != nil {
			return fmt.Errorf("read movies csv: %w", err)
		}

		id := `(SELECT COALESCE(MAX(id), 0) FROM movies) + row_number() OVER ()`
		if c, ok := cols["movieid"]; ok {
			id = `TRY_CAST(` + c + ` AS INTEGER)`
		}
		year := `TRY_CAST(regexp_extract(trim(` + title + `), '\((\d{4})\)\s*$', 1) AS INTEGER)`
		if c, ok := cols["year"]; ok {
			year = `COALESCE(TRY_CAST(` + c + ` AS INTEGER), ` + year + `)`
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO movies (id, title, year, genres, overview)
			SELECT s.id, s.title, s.year, s.genres, s.overview
			FROM (
				SELECT
					`+id+` AS id,
					trim(`+title+`) AS title,
					`+year+` AS year,
					COALESCE(NULLIF(`+cols.or("genres")+`, '(no genres listed)'), '') AS genres,
					COALESCE(`+cols.or("overview")+`, '') AS overview,
					row_number() OVER () AS seq
				FROM `+src+`
				WHERE `+title+` IS NOT NULL AND trim(`+title+`) <> ''
			) s
			WHERE s.id IS NOT NULL
			QUALIFY row_number() OVER (PARTITION BY s.id ORDER BY s.seq DESC) = 1
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				year = excluded.year,
				genres = excluded.genres,
				overview = excluded.overview`)
		if err != nil {
			return fmt.Errorf("insert movies: %w", err)
		}
		stats.Inserted, _ = res.RowsAffected()
		stats.Skipped = total - stats.Inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)

	logging.Info().Str("source", path).Int64("inserted", stats.Inserted).
		Int64("skipped", stats.Skipped).Dur("duration", stats.Duration).Msg("Imported movies")
	return stats, nil
}

// ImportRatingsCSV loads a MovieLens style ratings CSV with the header
// userId,movieId,rating. Half-star scores are rounded and clamped to 1..5,
// rows for unknown movies are skipped and the last row wins for duplicate
// user and movie pairs. Users that do not exist yet are created as
// placeholder accounts that cannot log in.
func (db *DB) ImportRatingsCSV(ctx context.Context, path string) (stats *models.ImportStats, err error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("import", "ratings", start, err) }(time.Now())

	start := time.Now()
	stats = &models.ImportStats{Source: path}

	err = db.inWriteTx(ctx, true, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			CREATE OR REPLACE TEMP TABLE rating_import AS
			SELECT
				row_number() OVER () AS seq,
				TRY_CAST(userId AS INTEGER) AS user_id,
				TRY_CAST(movieId AS INTEGER) AS movie_id,
				LEAST(5, GREATEST(1, CAST(round(TRY_CAST(rating AS DOUBLE)) AS INTEGER))) AS score
			FROM `+csvSource(path))
		if err != nil {
			return fmt.Errorf("read ratings csv: %w", err)
		}
		defer func() {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS rating_import`); err != nil {
				logging.Debug().Err(err).Msg("drop rating_import")
			}
		}()

		var total int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rating_import`).Scan(&total); err != nil {
			return fmt.Errorf("count ratings: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, role)
			SELECT DISTINCT s.user_id, 'user' || s.user_id || '@import.local', ?, 'user'
			FROM rating_import s
			WHERE s.user_id IS NOT NULL AND s.user_id > 0
			  AND s.user_id NOT IN (SELECT id FROM users)`, ImportedPasswordHash)
		if err != nil {
			return fmt.Errorf("insert placeholder users: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO ratings (user_id, movie_id, score)
			SELECT s.user_id, s.movie_id, s.score
			FROM rating_import s
			WHERE s.user_id IS NOT NULL AND s.score IS NOT NULL
			  AND s.movie_id IN (SELECT id FROM movies)
			QUALIFY row_number() OVER (PARTITION BY s.user_id, s.movie_id ORDER BY s.seq DESC) = 1
			ON CONFLICT (user_id, movie_id)
			DO UPDATE SET score = excluded.score, updated_at = now()`)
		if err != nil {
			return fmt.Errorf("insert ratings: %w", err)
		}
		stats.Inserted, _ = res.RowsAffected()
		stats.Skipped = total - stats.Inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)

	logging.Info().Str("source", path).Int64("inserted", stats.Inserted).
		Int64("skipped", stats.Skipped).Dur("duration", stats.Duration).Msg("Imported ratings")
	return stats, nil
}

// SeedRandomRatings creates users user1@example.com .. userN@example.com
// with passwordHash and gives each between 3 and 7 random ratings scored
// 2 to 5. Existing users are reused.
func (db *DB) SeedRandomRatings(ctx context.Context, users int, passwordHash string, rng *rand.Rand) (stats *models.ImportStats, err error) {
	defer func(start time.Time) { observe("seed", "ratings", start, err) }(time.Now())

	start := time.Now()
	stats = &models.ImportStats{Source: "random"}

	err = db.inWriteTx(ctx, true, func(tx *sql.Tx) error {
		movieIDs, err := movieIDsTx(ctx, tx)
		if err != nil {
			return err
		}
		if len(movieIDs) == 0 {
			return errors.New("seed: catalogue is empty")
		}

		for i := 1; i <= users; i++ {
			userID, err := ensureUserTx(ctx, tx, fmt.Sprintf("user%d@example.com", i), passwordHash)
			if err != nil {
				return err
			}

			n := min(3+rng.IntN(5), len(movieIDs))
			for _, idx := range rng.Perm(len(movieIDs))[:n] {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO ratings (user_id, movie_id, score) VALUES (?, ?, ?)
					ON CONFLICT (user_id, movie_id)
					DO UPDATE SET score = excluded.score, updated_at = now()`,
					userID, movieIDs[idx], 2+rng.IntN(4))
				if err != nil {
					return fmt.Errorf("seed rating: %w", err)
				}
				stats.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

func movieIDsTx(ctx context.Context, tx *sql.Tx) ([]int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list movie ids: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func ensureUserTx(ctx context.Context, tx *sql.Tx, email, passwordHash string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, role)
		SELECT COALESCE(MAX(id), 0) + 1, ?, ?, 'user' FROM users
		RETURNING id`, email, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert seed user: %w", err)
	}
	return id, nil
}

// csvSource renders a read_csv table function call. The path is inlined
// as a quoted literal.
func csvSource(path string) string {
	return fmt.Sprintf("read_csv('%s', header = true, all_varchar = true)", strings.ReplaceAll(path, "'", "''"))
}

// csvHeader maps lower-cased CSV column names to quoted identifiers.
type csvHeader map[string]string

// or returns the quoted column, or NULL when the CSV lacks it.
func (h csvHeader) or(name string) string {
	if c, ok := h[name]; ok {
		return c
	}
	return "NULL"
}

func csvColumns(ctx context.Context, tx *sql.Tx, src string) (csvHeader, error) {
	rows, err := tx.QueryContext(ctx, `SELECT * FROM `+src+` LIMIT 0`)
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	defer closeWithLog(rows, "rows")

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	h := make(csvHeader, len(names))
	for _, n := range names {
		h[strings.ToLower(strings.TrimSpace(n))] = `"` + strings.ReplaceAll(n, `"`, `""`) + `"`
	}
	return h, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("import source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("import source %s is a directory", path)
	}
	return nil
}
