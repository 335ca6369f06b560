// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements the movie ranking engine.
//
// # Architecture
//
// Two independent strategies share a vectorizer, a similarity engine and a
// popularity fallback:
//
//   - Content-based: TF-IDF vectors over genre tags and synopsis, ranked by
//     cosine similarity to a taste vector averaged from liked movies
//   - Collaborative: dense user x item matrix, per-user mean-centering,
//     user-user cosine KNN, de-centered weighted prediction
//   - Popularity: mean rating, then rating count, then movie id
//
// # Cold Start
//
// Each strategy evaluates an ordered list of named conditions. The first
// one that holds routes the call to the popularity ranking and is reported
// in Result.Fallback:
//
//   - FallbackNoRatings: the user rated nothing (content)
//   - FallbackNoPositiveSignal: no rating above 3 on a catalogue movie (content)
//   - FallbackAbsentFromMatrix: the user is not in the rating set (collaborative)
//   - FallbackEmptyPredictions: no positive prediction survived (collaborative)
//
// # Determinism
//
// Every reduction runs in ascending index order and every sort has a total
// tie-break on ids, so identical inputs produce bit-identical results.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), provider, logger)
//	res, err := engine.RecommendContentBased(ctx, userID, 20)
//	res, err = engine.RecommendCollaborative(ctx, userID, 20, 20)
//
// # Thread Safety
//
// The engine holds no derived state between calls: vocabulary, vectors and
// the preference matrix are built per call. It is safe for concurrent use.
package recommend
