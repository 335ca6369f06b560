// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Command seed bulk loads the catalogue and ratings into the database.
//
//	seed -movies movies.csv -ratings ratings.csv
//	seed -movies movies.csv -random-users 50 -password secret1
//
// Movies are loaded before ratings. Database and logging settings come
// from the same configuration as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

type options struct {
	movies      string
	ratings     string
	randomUsers int
	password    string
	seed        int64
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		logging.Error().Err(err).Msg("Seeding failed")
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.StringVar(&opts.movies, "movies", "", "movies CSV (MovieLens movieId,title,genres or title,year,genres,overview)")
	fs.StringVar(&opts.ratings, "ratings", "", "ratings CSV (userId,movieId,rating)")
	fs.IntVar(&opts.randomUsers, "random-users", 0, "create N demo users with random ratings")
	fs.StringVar(&opts.password, "password", "password", "password for demo users")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed for demo ratings (0 uses the clock)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.movies == "" && opts.ratings == "" && opts.randomUsers == 0 {
		return nil, errors.New("nothing to do: pass -movies, -ratings or -random-users")
	}
	if opts.randomUsers < 0 {
		return nil, fmt.Errorf("-random-users must be non-negative, got %d", opts.randomUsers)
	}
	if opts.randomUsers > 0 && len(opts.password) < 6 {
		return nil, errors.New("-password must be at least 6 characters")
	}
	return opts, nil
}

func run(opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Service: "cinematch-seed",
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var results []*models.ImportStats
	if opts.movies != "" {
		stats, err := db.ImportMoviesCSV(ctx, opts.movies)
		if err != nil {
			return err
		}
		results = append(results, stats)
	}
	if opts.ratings != "" {
		stats, err := db.ImportRatingsCSV(ctx, opts.ratings)
		if err != nil {
			return err
		}
		results = append(results, stats)
	}
	if opts.randomUsers > 0 {
		hash, err := auth.NewPasswordHasher(cfg.Security.BcryptCost).Hash(opts.password)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		seed := opts.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)))
		stats, err := db.SeedRandomRatings(ctx, opts.randomUsers, hash, rng)
		if err != nil {
			return err
		}
		results = append(results, stats)
	}

	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint after seeding failed")
	}

	for _, s := range results {
		logging.Info().Str("source", s.Source).Int64("inserted", s.Inserted).
			Int64("skipped", s.Skipped).Dur("duration", s.Duration).Msg("Seed step complete")
	}
	return nil
}
