// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by every handler. Field names in
// errors come from the json tag, or the query tag for query parameter
// structs, so clients see the names they sent:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "score must be at most 5",
//	    "details": {"field": "score", "tag": "max", "value": 9}
//	}
//
// # Custom Tags
//
//   - genres: pipe-separated genre list with no empty segments ("Action|Drama")
package validation
