// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 8000

// Vectorizer converts documents into L2-normalized TF-IDF vectors over a
// vocabulary fitted on the same corpus.
//
// Weighting:
//
//	idf(t)   = ln((1 + N) / (1 + df(t))) + 1
//	w(d, t)  = count(d, t) * idf(t)
//	v(d)     = w(d) / ||w(d)||
//
// The vocabulary keeps the MaxFeatures terms with the highest total corpus
// frequency. A Vectorizer holds no fitted state, so one value can be shared
// by concurrent calls.
type Vectorizer struct {
	// MaxFeatures is the vocabulary cap. Default: 8000.
	MaxFeatures int

	// MinN and MaxN bound the n-gram range. Default: 1 and 2.
	MinN int
	MaxN int

	// StopWords are removed before n-grams are formed.
	StopWords map[string]struct{}
}

// NewVectorizer returns a unigram+bigram vectorizer with English stop words.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{
		MaxFeatures: maxFeatures,
		MinN:        1,
		MaxN:        2,
		StopWords:   EnglishStopWords(),
	}
}

// Matrix is a set of sparse row vectors sharing one vocabulary.
type Matrix struct {
	// Dim is the vocabulary size.
	Dim int

	// Rows holds one vector per input document, in input order.
	Rows []SparseVector

	// Vocabulary maps column index to term.
	Vocabulary []string
}

// FitTransform fits the vocabulary and IDF weights on docs and returns
// their vectors. An empty corpus yields a matrix with no rows.
func (v *Vectorizer) FitTransform(docs []string) *Matrix {
	m := &Matrix{Rows: make([]SparseVector, len(docs))}
	if len(docs) == 0 {
		return m
	}

	counts := make([]map[string]int, len(docs))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range v.analyze(doc) {
			c[term]++
		}
		for term, n := range c {
			corpusFreq[term] += n
			docFreq[term]++
		}
		counts[i] = c
	}

	m.Vocabulary = v.selectFeatures(corpusFreq)
	m.Dim = len(m.Vocabulary)

	index := make(map[string]int, m.Dim)
	idf := make([]float64, m.Dim)
	n := float64(len(docs))
	for j, term := range m.Vocabulary {
		index[term] = j
		idf[j] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	for i, c := range counts {
		m.Rows[i] = weightRow(c, index, idf)
	}
	return m
}

// weightRow builds the normalized TF-IDF row for one document's counts.
func weightRow(counts map[string]int, index map[string]int, idf []float64) SparseVector {
	cols := make([]int, 0, len(counts))
	raw := make(map[int]int, len(counts))
	for term, n := range counts {
		if j, ok := index[term]; ok {
			cols = append(cols, j)
			raw[j] = n
		}
	}
	sort.Ints(cols)

	row := SparseVector{Indices: cols, Values: make([]float64, len(cols))}
	for k, j := range cols {
		row.Values[k] = float64(raw[j]) * idf[j]
	}
	if norm := row.Norm(); norm > 0 {
		for k := range row.Values {
			row.Values[k] /= norm
		}
	}
	return row
}

// selectFeatures returns the retained vocabulary in term order.
func (v *Vectorizer) selectFeatures(corpusFreq map[string]int) []string {
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}

	limit := v.MaxFeatures
	if limit <= 0 {
		limit = DefaultMaxFeatures
	}
	if len(terms) > limit {
		sort.Slice(terms, func(i, j int) bool {
			fi, fj := corpusFreq[terms[i]], corpusFreq[terms[j]]
			if fi != fj {
				return fi > fj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:limit]
	}
	sort.Strings(terms)
	return terms
}

// analyze tokenizes a document, drops stop words and emits the configured
// n-grams joined by single spaces.
func (v *Vectorizer) analyze(doc string) []string {
	tokens := tokenize(doc)
	if len(v.StopWords) > 0 {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.StopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	minN, maxN := v.MinN, v.MaxN
	if minN <= 0 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	terms := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				terms = append(terms, tokens[i])
				continue
			}
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
