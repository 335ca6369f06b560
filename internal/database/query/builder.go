// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package query

import (
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddContains("m.title", "matrix").AddEquals("m.year", 1999)
//	where, args := wb.Build()
//	// WHERE m.title ILIKE ? ESCAPE '\' AND m.year = ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddContains adds a case-insensitive substring match on column. Empty
// values are skipped. LIKE wildcards in value match literally.
func (wb *WhereBuilder) AddContains(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+` ILIKE ? ESCAPE '\'`, "%"+EscapeLike(value)+"%")
}

// AddEquals adds an equality filter on column. Zero values are skipped.
func (wb *WhereBuilder) AddEquals(column string, value int) *WhereBuilder {
	if value == 0 {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// Build returns "WHERE ..." and its arguments, or "" when no clause was
// added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", wb.args
	}
	return "WHERE " + strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns " AND ..." for appending to an existing WHERE.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", wb.args
	}
	return " AND " + strings.Join(wb.clauses, " AND "), wb.args
}

// Count returns the number of clauses.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clause was added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// EscapeLike escapes the LIKE metacharacters %, _ and the escape
// character itself.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Placeholders returns "?, ?, ..." with n placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
