// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/cinematch/internal/models"
)

func TestUpsertRating(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedMovies(t, db, models.CreateMovieRequest{Title: "Heat"}, models.CreateMovieRequest{Title: "Alien"})
	u := seedUser(t, db, "alice@example.com")

	r, err := db.UpsertRating(ctx, u.ID, 1, 4)
	if err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if r.MovieID != 1 || r.Score != 4 || r.Title != "Heat" || r.UserID != u.ID {
		t.Errorf("rating = %+v", r)
	}

	again, err := db.UpsertRating(ctx, u.ID, 1, 2)
	if err != nil {
		t.Fatalf("second UpsertRating: %v", err)
	}
	if again.ID != r.ID || again.Score != 2 {
		t.Errorf("re-rating should overwrite in place: first %+v, second %+v", r, again)
	}
	if again.UpdatedAt.Before(r.UpdatedAt) {
		t.Errorf("updated_at went backwards")
	}

	if _, err := db.UpsertRating(ctx, u.ID, 77, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown movie err = %v, want ErrNotFound", err)
	}

	all, err := db.AllRatings(ctx)
	if err != nil {
		t.Fatalf("AllRatings: %v", err)
	}
	if len(all) != 1 || all[0].Score != 2 || all[0].ItemID != 1 {
		t.Errorf("AllRatings = %+v", all)
	}
}

func TestListAndDeleteRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedMovies(t, db,
		models.CreateMovieRequest{Title: "Heat"},
		models.CreateMovieRequest{Title: "Alien"},
		models.CreateMovieRequest{Title: "Amelie"},
	)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	for _, movieID := range []int{1, 2, 3} {
		if _, err := db.UpsertRating(ctx, alice.ID, movieID, movieID+1); err != nil {
			t.Fatalf("UpsertRating: %v", err)
		}
	}
	if _, err := db.UpsertRating(ctx, bob.ID, 2, 5); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	mine, err := db.ListUserRatings(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListUserRatings: %v", err)
	}
	if len(mine) != 3 || mine[0].MovieID != 3 || mine[0].Title != "Amelie" {
		t.Errorf("ListUserRatings should return newest first: %+v", mine)
	}

	forUser, err := db.RatingsForUser(ctx, bob.ID)
	if err != nil || len(forUser) != 1 || forUser[0].ItemID != 2 {
		t.Errorf("RatingsForUser(bob) = %+v, %v", forUser, err)
	}

	if err := db.DeleteRating(ctx, bob.ID, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting an unrated movie err = %v, want ErrNotFound", err)
	}
	if err := db.DeleteRating(ctx, alice.ID, 3); err != nil {
		t.Fatalf("DeleteRating: %v", err)
	}
	if err := db.DeleteRating(ctx, alice.ID, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}

	left, _ := db.ListUserRatings(ctx, alice.ID)
	if len(left) != 2 {
		t.Errorf("remaining ratings = %d, want 2", len(left))
	}

	empty, err := db.ListUserRatings(ctx, 999)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListUserRatings(unknown) = %v, %v", empty, err)
	}
}

func TestCorpusVersionBumpsOnRatingWrites(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedMovies(t, db, models.CreateMovieRequest{Title: "Heat"})
	u := seedUser(t, db, "alice@example.com")

	before, _ := db.CorpusVersion(ctx)
	if _, err := db.UpsertRating(ctx, u.ID, 1, 5); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	afterUpsert, _ := db.CorpusVersion(ctx)
	if afterUpsert == before {
		t.Errorf("upsert did not bump corpus version (%s)", before)
	}

	if _, err := db.UpsertRating(ctx, u.ID, 42, 5); err == nil {
		t.Fatal("expected error for unknown movie")
	}
	if v, _ := db.CorpusVersion(ctx); v != afterUpsert {
		t.Errorf("failed write bumped version %s -> %s", afterUpsert, v)
	}

	if err := db.DeleteRating(ctx, u.ID, 1); err != nil {
		t.Fatalf("DeleteRating: %v", err)
	}
	if v, _ := db.CorpusVersion(ctx); v == afterUpsert {
		t.Errorf("delete did not bump corpus version")
	}
}

func TestOverview(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	empty, err := db.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if *empty != (models.Overview{}) {
		t.Errorf("empty overview = %+v", empty)
	}

	seedMovies(t, db,
		models.CreateMovieRequest{Title: "A"},
		models.CreateMovieRequest{Title: "B"},
		models.CreateMovieRequest{Title: "C"},
	)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	seedUser(t, db, "c@example.com")

	for _, r := range []struct{ user, movie int }{{a.ID, 1}, {a.ID, 2}, {b.ID, 1}, {b.ID, 2}} {
		if _, err := db.UpsertRating(ctx, r.user, r.movie, 4); err != nil {
			t.Fatalf("UpsertRating: %v", err)
		}
	}

	ov, err := db.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	want := models.Overview{
		TotalUsers:        3,
		TotalMovies:       3,
		TotalRatings:      4,
		AvgRatingsPerUser: 1.333,
		CoveragePct:       66.67,
	}
	if *ov != want {
		t.Errorf("Overview = %+v, want %+v", ov, want)
	}
}

func TestProvider(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedMovies(t, db,
		models.CreateMovieRequest{Title: "Heat", Year: intPtr(1995), Genres: "Action|Crime"},
		models.CreateMovieRequest{Title: "Alien", Genres: ""},
	)
	u := seedUser(t, db, "alice@example.com")
	if _, err := db.UpsertRating(ctx, u.ID, 2, 3); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	p := NewProvider(db)
	items, err := p.FetchAllItems(ctx)
	if err != nil {
		t.Fatalf("FetchAllItems: %v", err)
	}
	if len(items) != 2 || items[0].Year != 1995 || len(items[0].Genres) != 2 || items[0].Genres[1] != "Crime" {
		t.Errorf("items = %+v", items)
	}
	if len(items[1].Genres) != 0 {
		t.Errorf("empty genres should parse to none: %+v", items[1])
	}

	byID, err := p.FetchItemsByIDs(ctx, []int{2})
	if err != nil || len(byID) != 1 || byID[0].Title != "Alien" {
		t.Errorf("FetchItemsByIDs = %+v, %v", byID, err)
	}

	ratings, err := p.FetchRatingsForUser(ctx, u.ID)
	if err != nil || len(ratings) != 1 || ratings[0].UserID != u.ID {
		t.Errorf("FetchRatingsForUser = %+v, %v", ratings, err)
	}
	if all, err := p.FetchAllRatings(ctx); err != nil || len(all) != 1 {
		t.Errorf("FetchAllRatings = %+v, %v", all, err)
	}

	v, err := p.CorpusVersion(ctx)
	if err != nil || v == "" {
		t.Errorf("CorpusVersion = %q, %v", v, err)
	}
}
