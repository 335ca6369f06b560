// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// GenreSeparator separates genre tags in the stored genre column.
const GenreSeparator = "|"

// ParseGenres splits a pipe-delimited genre column into trimmed tags.
// Empty tags are dropped.
func ParseGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, GenreSeparator)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// BuildDocument returns the text the vectorizer sees for an item: the
// normalized genre tokens, followed by the overview when includeOverview
// is set.
func BuildDocument(item Item, includeOverview bool) string {
	var b strings.Builder
	for _, g := range item.Genres {
		tag := normalizeGenre(g)
		if tag == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tag)
	}
	if includeOverview && strings.TrimSpace(item.Overview) != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.Overview)
	}
	return b.String()
}

// normalizeGenre lower-cases a tag, removes hyphens and turns any embedded
// pipe into a space ("Sci-Fi" -> "scifi").
func normalizeGenre(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.ReplaceAll(tag, "-", "")
	tag = strings.ReplaceAll(tag, GenreSeparator, " ")
	return strings.ToLower(tag)
}

// tokenize lower-cases text and returns every maximal run of word
// characters that is at least two runes long.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	tokens := make([]string, 0, len(text)/5)
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if utf8.RuneCountInString(tok) < 2 {
		return tokens
	}
	return append(tokens, tok)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
