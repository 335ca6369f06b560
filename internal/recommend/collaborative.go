// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sort"

// ========== Preference Matrix ==========

// PreferenceMatrix is the dense user x item rating matrix built from one
// rating set. Users and Items are sorted ascending; row i belongs to
// Users[i] and column j to Items[j].
type PreferenceMatrix struct {
	Users    []int
	Items    []int
	Values   [][]float64
	Observed [][]bool

	userIndex map[int]int
}

// NewPreferenceMatrix builds the matrix. When a (user, item) pair occurs
// more than once the last rating wins.
func NewPreferenceMatrix(ratings []Rating) *PreferenceMatrix {
	users := distinct(ratings, func(r Rating) int { return r.UserID })
	items := distinct(ratings, func(r Rating) int { return r.ItemID })

	m := &PreferenceMatrix{
		Users:     users,
		Items:     items,
		Values:    make([][]float64, len(users)),
		Observed:  make([][]bool, len(users)),
		userIndex: indexOf(users),
	}
	for i := range users {
		m.Values[i] = make([]float64, len(items))
		m.Observed[i] = make([]bool, len(items))
	}

	itemIndex := indexOf(items)
	for _, r := range ratings {
		ui, mi := m.userIndex[r.UserID], itemIndex[r.ItemID]
		m.Values[ui][mi] = float64(r.Score)
		m.Observed[ui][mi] = true
	}
	return m
}

// Row returns the row index of a user.
func (m *PreferenceMatrix) Row(userID int) (int, bool) {
	i, ok := m.userIndex[userID]
	return i, ok
}

// Means returns each user's mean over observed cells only.
func (m *PreferenceMatrix) Means() []float64 {
	means := make([]float64, len(m.Users))
	for i, row := range m.Values {
		var sum float64
		count := 0
		for j, v := range row {
			if m.Observed[i][j] {
				sum += v
				count++
			}
		}
		means[i] = sum / float64(max(count, 1))
	}
	return means
}

// Centered subtracts each user's mean from their observed cells.
// Unobserved cells are exactly 0.
func (m *PreferenceMatrix) Centered(means []float64) [][]float64 {
	out := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if m.Observed[i][j] {
				out[i][j] = v - means[i]
			}
		}
	}
	return out
}

// ========== User-Based Collaborative Filtering ==========

// Prediction is a predicted rating for an item the user has not rated.
type Prediction struct {
	ItemID int
	Score  float64
}

// neighbor is a candidate peer user identified by matrix row.
type neighbor struct {
	row        int
	similarity float64
}

// Collaborative predicts unseen ratings from the K most similar users.
//
// Algorithm:
//  1. Mean-center every user's observed ratings
//  2. Cosine similarity between the target row and every other row
//  3. Keep the K most similar users (ties by user id)
//  4. pred(i) = mean(u) + Σ sim(u,v)·c(v,i) / (Σ |sim(u,v)| + ε)
type Collaborative struct{}

// NewCollaborative creates a user-based collaborative recommender.
func NewCollaborative() *Collaborative {
	return &Collaborative{}
}

// Predict returns positive predictions for every item userID has not
// rated, ordered by score descending and item id ascending. An empty
// rating set returns no predictions and FallbackNone; otherwise an empty
// prediction list always comes with the reason to fall back.
func (c *Collaborative) Predict(ratings []Rating, userID, k int) ([]Prediction, FallbackReason) {
	if len(ratings) == 0 || k <= 0 {
		return []Prediction{}, FallbackNone
	}

	m := NewPreferenceMatrix(ratings)
	ui, present := m.Row(userID)
	if reason := firstFallback(
		condition{FallbackAbsentFromMatrix, func() bool { return !present }},
	); reason != FallbackNone {
		return nil, reason
	}

	means := m.Means()
	centered := m.Centered(means)

	sims := CosineToRows(centered[ui], DenseRows(centered))
	sims[ui] = 0
	neighbors := nearest(sims, ui, k)

	var denom float64
	for _, n := range neighbors {
		if n.similarity < 0 {
			denom -= n.similarity
		} else {
			denom += n.similarity
		}
	}
	denom += Epsilon

	preds := make([]Prediction, 0, len(m.Items))
	for mi, itemID := range m.Items {
		if m.Observed[ui][mi] {
			continue
		}
		var num float64
		for _, n := range neighbors {
			num += n.similarity * centered[n.row][mi]
		}
		if score := means[ui] + num/denom; score > 0 {
			preds = append(preds, Prediction{ItemID: itemID, Score: score})
		}
	}

	sort.SliceStable(preds, func(a, b int) bool {
		if preds[a].Score != preds[b].Score {
			return preds[a].Score > preds[b].Score
		}
		return preds[a].ItemID < preds[b].ItemID
	})

	if reason := firstFallback(
		condition{FallbackEmptyPredictions, func() bool { return len(preds) == 0 }},
	); reason != FallbackNone {
		return nil, reason
	}
	return preds, FallbackNone
}

// nearest returns up to k rows by similarity descending, ties by row
// (user id) ascending, never including self.
func nearest(sims []float64, self, k int) []neighbor {
	candidates := make([]neighbor, 0, len(sims))
	for row, s := range sims {
		if row != self {
			candidates = append(candidates, neighbor{row: row, similarity: s})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].similarity != candidates[b].similarity {
			return candidates[a].similarity > candidates[b].similarity
		}
		return candidates[a].row < candidates[b].row
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// Titled attaches catalogue titles to predictions and keeps the first
// topN. Predictions whose item is missing from the catalogue are skipped.
func Titled(preds []Prediction, items []Item, topN int) []Recommendation {
	titles := make(map[int]string, len(items))
	for _, it := range items {
		titles[it.ID] = it.Title
	}
	out := make([]Recommendation, 0, min(len(preds), max(topN, 0)))
	for _, p := range preds {
		if len(out) >= topN {
			break
		}
		title, ok := titles[p.ItemID]
		if !ok {
			continue
		}
		out = append(out, Recommendation{ItemID: p.ItemID, Title: title, Score: p.Score})
	}
	return out
}

// PredictionIDs returns the item ids of preds in order.
func PredictionIDs(preds []Prediction) []int {
	ids := make([]int, len(preds))
	for i, p := range preds {
		ids[i] = p.ItemID
	}
	return ids
}

func distinct(ratings []Rating, key func(Rating) int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range ratings {
		id := key(r)
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func indexOf(ids []int) map[int]int {
	idx := make(map[int]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
