// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "math"

// Epsilon guards cosine denominators against all-zero vectors.
const Epsilon = 1e-9

// SparseVector stores the non-zero components of a vector. Indices are
// strictly ascending.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean length of the vector.
func (s SparseVector) Norm() float64 {
	var sum float64
	for _, x := range s.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// DotDense returns the dot product with a dense vector. Components outside
// the dense vector's length count as zero.
func (s SparseVector) DotDense(d []float64) float64 {
	var sum float64
	for k, j := range s.Indices {
		if j < len(d) {
			sum += s.Values[k] * d[j]
		}
	}
	return sum
}

// Dot returns the dot product of two sparse vectors.
func (s SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(s.Indices) && j < len(o.Indices) {
		switch {
		case s.Indices[i] == o.Indices[j]:
			sum += s.Values[i] * o.Values[j]
			i++
			j++
		case s.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// AddScaledTo adds scale*s into the dense vector dst.
func (s SparseVector) AddScaledTo(dst []float64, scale float64) {
	for k, j := range s.Indices {
		if j < len(dst) {
			dst[j] += scale * s.Values[k]
		}
	}
}

// Dense expands the vector to a dense slice of length dim.
func (s SparseVector) Dense(dim int) []float64 {
	d := make([]float64, dim)
	s.AddScaledTo(d, 1)
	return d
}

// SparseFromDense keeps the non-zero components of d.
func SparseFromDense(d []float64) SparseVector {
	var s SparseVector
	for j, x := range d {
		if x != 0 {
			s.Indices = append(s.Indices, j)
			s.Values = append(s.Values, x)
		}
	}
	return s
}

// DenseRows converts every row of a dense matrix to sparse form.
func DenseRows(rows [][]float64) []SparseVector {
	out := make([]SparseVector, len(rows))
	for i, r := range rows {
		out[i] = SparseFromDense(r)
	}
	return out
}

// Dot returns the dot product of two dense vectors of equal length.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean length of a dense vector.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns dot(a,b) / (||a||*||b|| + Epsilon).
// All-zero inputs yield 0.
func Cosine(a, b []float64) float64 {
	return Dot(a, b) / (Norm(a)*Norm(b) + Epsilon)
}

// CosineToRows returns the cosine similarity of v against every row.
// The result for row i equals Cosine(v, rows[i].Dense(len(v))).
func CosineToRows(v []float64, rows []SparseVector) []float64 {
	nv := Norm(v)
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.DotDense(v) / (nv*r.Norm() + Epsilon)
	}
	return out
}

// PairwiseCosine returns the full row-by-row cosine similarity matrix.
// Entry [i][j] equals CosineToRows(rows[i] as dense, rows)[j].
func PairwiseCosine(rows []SparseVector) [][]float64 {
	norms := make([]float64, len(rows))
	for i, r := range rows {
		norms[i] = r.Norm()
	}
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, len(rows))
		for j := range rows {
			out[i][j] = rows[i].Dot(rows[j]) / (norms[i]*norms[j] + Epsilon)
		}
	}
	return out
}
