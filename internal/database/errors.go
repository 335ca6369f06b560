// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/cinematch/internal/logging"
)

var (
	// ErrNotFound is returned when a user, movie or rating does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when signing up with a registered e-mail.
	ErrDuplicateEmail = errors.New("email already registered")
)

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// rollbackQuietly rolls back a transaction on an error path.
func rollbackQuietly(tx interface{ Rollback() error }) {
	_ = tx.Rollback() // the original error is what the caller reports
}

// isUniqueViolation reports whether err is a DuckDB unique or primary key
// constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "violates primary key constraint")
}
