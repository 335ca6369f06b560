// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package auth implements local e-mail and password authentication.
//
// Passwords are hashed with bcrypt. A successful signup or login returns
// an HS256 JWT bearer token whose subject is the user's e-mail address and
// whose uid claim carries the numeric user ID. Tokens expire after
// SecurityConfig.AccessTokenExpireMinutes.
//
// Middleware.Authenticate validates the bearer token, reloads the user so
// deleted accounts and role changes take effect immediately, and stores
// the resulting Claims in the request context:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(authMW.Authenticate)
//	    r.Get("/api/ratings/me", h.MyRatings)
//	})
//
// Handlers read the caller with ClaimsFromContext.
package auth
