// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sort"

// NeutralScore is the rating treated as indifferent. Only ratings above it
// contribute to a taste vector, weighted by score - NeutralScore.
const NeutralScore = 3

// excludedScore marks rated items so they sort below every real similarity.
const excludedScore = -1.0

// ContentBased ranks catalogue items by cosine similarity between their
// TF-IDF vectors and a taste vector averaged from the items a user liked.
type ContentBased struct {
	vectorizer      *Vectorizer
	includeOverview bool
}

// NewContentBased creates a content-based recommender.
func NewContentBased(vectorizer *Vectorizer, includeOverview bool) *ContentBased {
	if vectorizer == nil {
		vectorizer = NewVectorizer(DefaultMaxFeatures)
	}
	return &ContentBased{vectorizer: vectorizer, includeOverview: includeOverview}
}

// likedItem is a catalogue row the user rated above NeutralScore.
type likedItem struct {
	row    int
	weight float64
}

// Recommend ranks items for the owner of userRatings. When the user has no
// usable signal it returns no items and the reason the caller should fall
// back on. An empty catalogue returns an empty list with FallbackNone.
func (c *ContentBased) Recommend(items []Item, userRatings []Rating, topN int) ([]Recommendation, FallbackReason) {
	if len(items) == 0 || topN <= 0 {
		return []Recommendation{}, FallbackNone
	}

	rowOf := make(map[int]int, len(items))
	for i, it := range items {
		if _, dup := rowOf[it.ID]; !dup {
			rowOf[it.ID] = i
		}
	}
	liked := likedRows(userRatings, rowOf)

	reason := firstFallback(
		condition{FallbackNoRatings, func() bool { return len(userRatings) == 0 }},
		condition{FallbackNoPositiveSignal, func() bool { return len(liked) == 0 }},
	)
	if reason != FallbackNone {
		return nil, reason
	}

	docs := make([]string, len(items))
	for i, it := range items {
		docs[i] = BuildDocument(it, c.includeOverview)
	}
	matrix := c.vectorizer.FitTransform(docs)

	taste := tasteVector(matrix, liked)
	sims := CosineToRows(taste, matrix.Rows)
	for _, r := range userRatings {
		if row, ok := rowOf[r.ItemID]; ok {
			sims[row] = excludedScore
		}
	}

	return rankRows(items, sims, topN), FallbackNone
}

// likedRows returns the catalogue rows rated above NeutralScore, ordered by
// item id so the weighted average is summed in a fixed order.
func likedRows(userRatings []Rating, rowOf map[int]int) []likedItem {
	sorted := make([]Rating, len(userRatings))
	copy(sorted, userRatings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })

	var liked []likedItem
	seen := make(map[int]struct{}, len(sorted))
	for _, r := range sorted {
		if _, dup := seen[r.ItemID]; dup {
			continue
		}
		seen[r.ItemID] = struct{}{}

		row, ok := rowOf[r.ItemID]
		if !ok {
			continue
		}
		if w := float64(r.Score - NeutralScore); w > 0 {
			liked = append(liked, likedItem{row: row, weight: w})
		}
	}
	return liked
}

// tasteVector is the weighted average of the liked rows.
func tasteVector(m *Matrix, liked []likedItem) []float64 {
	taste := make([]float64, m.Dim)
	var total float64
	for _, l := range liked {
		m.Rows[l.row].AddScaledTo(taste, l.weight)
		total += l.weight
	}
	if total > 0 {
		for j := range taste {
			taste[j] /= total
		}
	}
	return taste
}

// rankRows orders rows by score descending, ties by item id ascending,
// drops excluded rows and keeps the first topN.
func rankRows(items []Item, scores []float64, topN int) []Recommendation {
	order := make([]int, 0, len(items))
	for i := range items {
		if scores[i] > excludedScore {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if sa != sb {
			return sa > sb
		}
		return items[order[a]].ID < items[order[b]].ID
	})

	if len(order) > topN {
		order = order[:topN]
	}
	out := make([]Recommendation, len(order))
	for k, i := range order {
		out[k] = Recommendation{ItemID: items[i].ID, Title: items[i].Title, Score: scores[i]}
	}
	return out
}
