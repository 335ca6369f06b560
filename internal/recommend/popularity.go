// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sort"

// Popular ranks the catalogue by mean rating for a user who lacks signal
// for a primary strategy.
//
// Ordering:
//
//	mean score DESC, rating count DESC, item id ASC
//
// Items nobody rated rank last with mean 0 and count 0. Items rated by
// userID are always excluded. The returned score is the mean rating.
// At most n entries are returned.
func Popular(items []Item, ratings []Rating, userID, n int) []Recommendation {
	if n <= 0 || len(items) == 0 {
		return []Recommendation{}
	}

	type stat struct {
		sum   int
		count int
	}
	stats := make(map[int]*stat)
	rated := make(map[int]struct{})
	for _, r := range ratings {
		s, ok := stats[r.ItemID]
		if !ok {
			s = &stat{}
			stats[r.ItemID] = s
		}
		s.sum += r.Score
		s.count++
		if r.UserID == userID {
			rated[r.ItemID] = struct{}{}
		}
	}

	type candidate struct {
		item  Item
		mean  float64
		count int
	}
	candidates := make([]candidate, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if _, ok := rated[it.ID]; ok {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}

		c := candidate{item: it}
		if s, ok := stats[it.ID]; ok && s.count > 0 {
			c.mean = float64(s.sum) / float64(s.count)
			c.count = s.count
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.mean != b.mean {
			return a.mean > b.mean
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return a.item.ID < b.item.ID
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		out[i] = Recommendation{ItemID: c.item.ID, Title: c.item.Title, Score: c.mean}
	}
	return out
}
