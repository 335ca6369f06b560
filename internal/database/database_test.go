// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/models"
)

// testDBSemaphore serializes tests that hold a DuckDB connection. Many
// concurrent CGO calls can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory database that is closed and released
// when the test completes.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("close: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

func intPtr(v int) *int { return &v }

// seedMovies inserts movies with the given titles and genres.
func seedMovies(t *testing.T, db *DB, movies ...models.CreateMovieRequest) []*models.Movie {
	t.Helper()
	out := make([]*models.Movie, 0, len(movies))
	for i := range movies {
		m, err := db.CreateMovie(context.Background(), &movies[i])
		if err != nil {
			t.Fatalf("CreateMovie(%q): %v", movies[i].Title, err)
		}
		out = append(out, m)
	}
	return out
}

func seedUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), email, "hash", models.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", email, err)
	}
	return u
}

// corpusCounter returns the write counter of an "<instance>:<counter>"
// corpus version.
func corpusCounter(t *testing.T, version string) int64 {
	t.Helper()
	instance, counter, ok := strings.Cut(version, ":")
	if !ok || instance == "" {
		t.Fatalf("corpus version %q has no instance prefix", version)
	}
	n, err := strconv.ParseInt(counter, 10, 64)
	if err != nil {
		t.Fatalf("corpus version %q: %v", version, err)
	}
	return n
}

func TestNew_SchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := db.initialize(); err != nil {
		t.Fatalf("second initialize failed: %v", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	v, err := db.CorpusVersion(context.Background())
	if err != nil {
		t.Fatalf("CorpusVersion: %v", err)
	}
	if c := corpusCounter(t, v); c != 1 {
		t.Errorf("initial corpus version = %q, want counter 1", v)
	}
}

func TestUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := seedUser(t, db, "  Alice@Example.com ")
	if first.ID != 1 || first.Email != "alice@example.com" || first.Role != models.RoleUser {
		t.Errorf("first user = %+v", first)
	}
	second := seedUser(t, db, "bob@example.com")
	if second.ID != 2 {
		t.Errorf("second user id = %d, want 2", second.ID)
	}

	if _, err := db.CreateUser(ctx, "ALICE@example.com", "hash", ""); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate email err = %v, want ErrDuplicateEmail", err)
	}

	got, err := db.GetUserByEmail(ctx, "alice@EXAMPLE.com")
	if err != nil || got.ID != first.ID || got.PasswordHash != "hash" {
		t.Errorf("GetUserByEmail = %+v, %v", got, err)
	}
	if _, err := db.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown email err = %v, want ErrNotFound", err)
	}
	if _, err := db.GetUserByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}

	if err := db.SetUserRole(ctx, second.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetUserRole: %v", err)
	}
	got, err = db.GetUserByID(ctx, second.ID)
	if err != nil || got.Role != models.RoleAdmin {
		t.Errorf("role after SetUserRole = %+v, %v", got, err)
	}

	// Accounts do not feed the recommenders.
	if v, _ := db.CorpusVersion(ctx); corpusCounter(t, v) != 1 {
		t.Errorf("corpus version after user writes = %q, want counter 1", v)
	}
}

func TestMovies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedMovies(t, db,
		models.CreateMovieRequest{Title: "Heat", Year: intPtr(1995), Genres: "Action|Crime|Thriller"},
		models.CreateMovieRequest{Title: "Alien", Year: intPtr(1979), Genres: "Horror|Sci-Fi", Overview: "In space no one can hear you scream"},
		models.CreateMovieRequest{Title: "Amelie", Genres: "Comedy|Romance"},
	)

	if v, _ := db.CorpusVersion(ctx); corpusCounter(t, v) != 4 {
		t.Errorf("corpus version after 3 inserts = %q, want counter 4", v)
	}

	m, err := db.GetMovie(ctx, 2)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if m.Title != "Alien" || m.Year == nil || *m.Year != 1979 || m.AvgRating != nil || m.RatingCount != 0 {
		t.Errorf("GetMovie(2) = %+v", m)
	}
	if _, err := db.GetMovie(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMovie(42) err = %v, want ErrNotFound", err)
	}

	tests := []struct {
		name   string
		filter models.MovieFilter
		want   []string
	}{
		{name: "all ordered by title", filter: models.MovieFilter{}, want: []string{"Alien", "Amelie", "Heat"}},
		{name: "title substring case-insensitive", filter: models.MovieFilter{Query: "AL"}, want: []string{"Alien"}},
		{name: "genre substring", filter: models.MovieFilter{Genre: "sci"}, want: []string{"Alien"}},
		{name: "year", filter: models.MovieFilter{Year: 1995}, want: []string{"Heat"}},
		{name: "page size", filter: models.MovieFilter{Size: 2}, want: []string{"Alien", "Amelie"}},
		{name: "second page", filter: models.MovieFilter{Page: 2, Size: 2}, want: []string{"Heat"}},
		{name: "like wildcard is literal", filter: models.MovieFilter{Query: "%"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListMovies(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListMovies: %v", err)
			}
			titles := make([]string, len(got))
			for i, m := range got {
				titles[i] = m.Title
			}
			if len(titles) != len(tt.want) {
				t.Fatalf("titles = %v, want %v", titles, tt.want)
			}
			for i := range titles {
				if titles[i] != tt.want[i] {
					t.Errorf("titles = %v, want %v", titles, tt.want)
					break
				}
			}
		})
	}

	byID, err := db.MoviesByIDs(ctx, []int{3, 1, 99})
	if err != nil {
		t.Fatalf("MoviesByIDs: %v", err)
	}
	if len(byID) != 2 || byID[0].ID != 1 || byID[1].ID != 3 {
		t.Errorf("MoviesByIDs = %+v", byID)
	}
	if empty, err := db.MoviesByIDs(ctx, nil); err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("MoviesByIDs(nil) = %v, %v", empty, err)
	}
}

func TestNormalizePaging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, 5, 1, 5},
		{4, 500, 4, MaxPageSize},
	}
	for _, tt := range tests {
		p, s := normalizePaging(tt.page, tt.size)
		if p != tt.wantPage || s != tt.wantSize {
			t.Errorf("normalizePaging(%d, %d) = (%d, %d), want (%d, %d)", tt.page, tt.size, p, s, tt.wantPage, tt.wantSize)
		}
	}
}

func TestCorpusVersion_RecreatedFileDoesNotRepeat(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cinematch.duckdb")

	writeOnce := func(title string) string {
		t.Helper()
		db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "512MB", Threads: 2})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				t.Errorf("close: %v", err)
			}
		}()
		if title != "" {
			seedMovies(t, db, models.CreateMovieRequest{Title: title, Genres: "Drama"})
		}
		v, err := db.CorpusVersion(ctx)
		if err != nil {
			t.Fatalf("CorpusVersion: %v", err)
		}
		return v
	}

	first := writeOnce("Alpha")
	if reopened := writeOnce(""); reopened != first {
		t.Errorf("reopening the same file changed the version: %q -> %q", first, reopened)
	}

	for _, f := range []string{path, path + ".wal"} {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("remove %s: %v", f, err)
		}
	}

	second := writeOnce("Gamma")
	if corpusCounter(t, first) != corpusCounter(t, second) {
		t.Fatalf("counters differ (%q vs %q); the check below would be vacuous", first, second)
	}
	if first == second {
		t.Errorf("recreated database reused corpus version %q", first)
	}
}
