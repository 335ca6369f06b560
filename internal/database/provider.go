// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Provider adapts DB to the recommender's data access interfaces.
type Provider struct {
	db *DB
}

var (
	_ recommend.DataProvider    = (*Provider)(nil)
	_ recommend.CorpusVersioner = (*Provider)(nil)
)

// NewProvider returns a recommend.DataProvider backed by db.
func NewProvider(db *DB) *Provider {
	return &Provider{db: db}
}

// FetchAllItems implements recommend.DataProvider.
func (p *Provider) FetchAllItems(ctx context.Context) ([]recommend.Item, error) {
	movies, err := p.db.AllMovies(ctx)
	if err != nil {
		return nil, err
	}
	return toItems(movies), nil
}

// FetchAllRatings implements recommend.DataProvider.
func (p *Provider) FetchAllRatings(ctx context.Context) ([]recommend.Rating, error) {
	return p.db.AllRatings(ctx)
}

// FetchRatingsForUser implements recommend.DataProvider.
func (p *Provider) FetchRatingsForUser(ctx context.Context, userID int) ([]recommend.Rating, error) {
	return p.db.RatingsForUser(ctx, userID)
}

// FetchItemsByIDs implements recommend.DataProvider.
func (p *Provider) FetchItemsByIDs(ctx context.Context, ids []int) ([]recommend.Item, error) {
	movies, err := p.db.MoviesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toItems(movies), nil
}

// CorpusVersion implements recommend.CorpusVersioner.
func (p *Provider) CorpusVersion(ctx context.Context) (string, error) {
	return p.db.CorpusVersion(ctx)
}

func toItems(movies []models.Movie) []recommend.Item {
	items := make([]recommend.Item, len(movies))
	for i := range movies {
		items[i] = ToItem(&movies[i])
	}
	return items
}

// ToItem converts a catalogue row to the recommender's item type.
func ToItem(m *models.Movie) recommend.Item {
	item := recommend.Item{
		ID:       m.ID,
		Title:    m.Title,
		Genres:   recommend.ParseGenres(m.Genres),
		Overview: m.Overview,
	}
	if m.Year != nil {
		item.Year = *m.Year
	}
	return item
}
