// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func TestPreferenceMatrix(t *testing.T) {
	t.Parallel()

	m := NewPreferenceMatrix([]Rating{
		{UserID: 7, ItemID: 30, Score: 4},
		{UserID: 3, ItemID: 10, Score: 2},
		{UserID: 7, ItemID: 10, Score: 5},
	})

	if !reflect.DeepEqual(m.Users, []int{3, 7}) {
		t.Errorf("Users = %v, want [3 7]", m.Users)
	}
	if !reflect.DeepEqual(m.Items, []int{10, 30}) {
		t.Errorf("Items = %v, want [10 30]", m.Items)
	}
	row, ok := m.Row(7)
	if !ok || row != 1 {
		t.Fatalf("Row(7) = %d, %v", row, ok)
	}
	if _, ok := m.Row(99); ok {
		t.Errorf("Row(99) should be absent")
	}

	means := m.Means()
	if means[0] != 2 || means[1] != 4.5 {
		t.Errorf("means = %v, want [2 4.5]", means)
	}

	centered := m.Centered(means)
	want := [][]float64{{0, 0}, {0.5, -0.5}}
	if !reflect.DeepEqual(centered, want) {
		t.Errorf("centered = %v, want %v", centered, want)
	}
	if m.Observed[0][1] {
		t.Errorf("user 3 never rated item 30")
	}
}

func TestCollaborative_IdenticalNeighborsPredictSharedItem(t *testing.T) {
	t.Parallel()

	var ratings []Rating
	pattern := []int{5, 4, 3, 2, 1}
	for _, user := range []int{1, 2} {
		for i, s := range pattern {
			ratings = append(ratings, Rating{UserID: user, ItemID: i + 1, Score: s})
		}
		ratings = append(ratings, Rating{UserID: user, ItemID: 6, Score: 5})
	}
	for i, s := range pattern {
		ratings = append(ratings, Rating{UserID: 3, ItemID: i + 1, Score: s})
	}

	preds, reason := NewCollaborative().Predict(ratings, 3, 20)
	if reason != FallbackNone {
		t.Fatalf("reason = %v, want none", reason)
	}
	if len(preds) != 1 || preds[0].ItemID != 6 {
		t.Fatalf("preds = %v, want only item 6", preds)
	}

	// mean(u3) = 3; neighbors' centered rating for item 6 is 5 - 20/6.
	want := 3 + (5 - 20.0/6.0)
	if math.Abs(preds[0].Score-want) > 1e-6 {
		t.Errorf("prediction = %v, want %v", preds[0].Score, want)
	}
	if math.Abs(preds[0].Score-5) > 0.5 {
		t.Errorf("prediction %v should be close to the neighbors' rating 5", preds[0].Score)
	}
}

func TestCollaborative_SingleNeighborRecentered(t *testing.T) {
	t.Parallel()

	ratings := []Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 1},
		{UserID: 1, ItemID: 3, Score: 4},
		{UserID: 1, ItemID: 4, Score: 2},
		{UserID: 2, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 2, Score: 2},
	}

	preds, reason := NewCollaborative().Predict(ratings, 2, 1)
	if reason != FallbackNone {
		t.Fatalf("reason = %v, want none", reason)
	}

	// The neighbor's centered pattern (+1, -1) lands on the target mean 3.5.
	want := []Prediction{{ItemID: 3, Score: 4.5}, {ItemID: 4, Score: 2.5}}
	if len(preds) != len(want) {
		t.Fatalf("preds = %v, want %v", preds, want)
	}
	for i := range want {
		if preds[i].ItemID != want[i].ItemID || math.Abs(preds[i].Score-want[i].Score) > 1e-6 {
			t.Errorf("pred[%d] = %+v, want %+v", i, preds[i], want[i])
		}
	}
}

func TestCollaborative_FallbackConditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ratings []Rating
		userID  int
		want    FallbackReason
	}{
		{
			name:    "user absent from matrix",
			ratings: []Rating{{UserID: 1, ItemID: 1, Score: 5}},
			userID:  2,
			want:    FallbackAbsentFromMatrix,
		},
		{
			name: "user already rated every item",
			ratings: []Rating{
				{UserID: 1, ItemID: 1, Score: 5},
				{UserID: 2, ItemID: 1, Score: 4},
			},
			userID: 1,
			want:   FallbackEmptyPredictions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			preds, reason := NewCollaborative().Predict(tt.ratings, tt.userID, 5)
			if reason != tt.want {
				t.Errorf("reason = %v, want %v", reason, tt.want)
			}
			if len(preds) != 0 {
				t.Errorf("preds = %v, want none", preds)
			}
		})
	}
}

func TestCollaborative_EmptyRatings(t *testing.T) {
	t.Parallel()

	preds, reason := NewCollaborative().Predict(nil, 1, 5)
	if reason != FallbackNone || preds == nil || len(preds) != 0 {
		t.Errorf("empty rating set = (%v, %v), want empty list and none", preds, reason)
	}
}

func TestCollaborative_NeverPredictsRatedItems(t *testing.T) {
	t.Parallel()

	ratings := []Rating{
		{UserID: 1, ItemID: 1, Score: 4}, {UserID: 1, ItemID: 2, Score: 2}, {UserID: 1, ItemID: 3, Score: 5},
		{UserID: 2, ItemID: 1, Score: 5}, {UserID: 2, ItemID: 2, Score: 1}, {UserID: 2, ItemID: 4, Score: 4},
		{UserID: 3, ItemID: 2, Score: 4}, {UserID: 3, ItemID: 3, Score: 2}, {UserID: 3, ItemID: 5, Score: 3},
	}
	preds, _ := NewCollaborative().Predict(ratings, 1, 2)
	for _, p := range preds {
		if p.ItemID <= 3 {
			t.Errorf("predicted rated item %d", p.ItemID)
		}
		if p.Score <= 0 {
			t.Errorf("non-positive prediction %+v", p)
		}
	}

	again, _ := NewCollaborative().Predict(ratings, 1, 2)
	if !reflect.DeepEqual(preds, again) {
		t.Errorf("predictions not idempotent: %v vs %v", preds, again)
	}
}

func TestNearest(t *testing.T) {
	t.Parallel()

	sims := []float64{0.5, 0, 0.9, 0.5, -0.2}

	tests := []struct {
		name string
		k    int
		want []int
	}{
		{name: "k larger than peers excludes self", k: 10, want: []int{2, 0, 3, 4}},
		{name: "ties by user order", k: 2, want: []int{2, 0}},
		{name: "k one", k: 1, want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := nearest(sims, 1, tt.k)
			rows := make([]int, len(got))
			for i, n := range got {
				rows[i] = n.row
			}
			if !reflect.DeepEqual(rows, tt.want) {
				t.Errorf("nearest rows = %v, want %v", rows, tt.want)
			}
		})
	}
}

func TestTitled(t *testing.T) {
	t.Parallel()

	preds := []Prediction{{ItemID: 5, Score: 4.8}, {ItemID: 9, Score: 4.1}, {ItemID: 2, Score: 3.3}, {ItemID: 7, Score: 3}}
	items := []Item{{ID: 2, Title: "Two"}, {ID: 5, Title: "Five"}, {ID: 7, Title: "Seven"}}

	got := Titled(preds, items, 2)
	want := []Recommendation{{ItemID: 5, Title: "Five", Score: 4.8}, {ItemID: 2, Title: "Two", Score: 3.3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Titled = %v, want %v", got, want)
	}

	if got := PredictionIDs(preds); !reflect.DeepEqual(got, []int{5, 9, 2, 7}) {
		t.Errorf("PredictionIDs = %v", got)
	}
}
