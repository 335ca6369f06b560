// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityLogger records authentication and authorization events. E-mail
// addresses and tokens are masked before they reach the log.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWithLogger(Logger())
}

// NewSecurityLoggerWithLogger creates a security logger on logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogSignup records an account creation attempt.
func (l *SecurityLogger) LogSignup(email, ip string, success bool, reason string) {
	e := l.level(success).
		Str("event", "signup").
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Bool("success", success)
	if reason != "" {
		e = e.Str("reason", reason)
	}
	e.Msg("signup")
}

// LogLoginSuccess records a successful login.
func (l *SecurityLogger) LogLoginSuccess(userID int, email, ip string) {
	l.logger.Info().
		Str("event", "login_success").
		Int("user_id", userID).
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Msg("login succeeded")
}

// LogLoginFailure records a rejected login.
func (l *SecurityLogger) LogLoginFailure(email, ip, reason string) {
	l.logger.Warn().
		Str("event", "login_failure").
		Str("email", SanitizeEmail(email)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("login failed")
}

// LogTokenRejected records a bearer token that failed validation.
func (l *SecurityLogger) LogTokenRejected(token, ip, reason string) {
	l.logger.Warn().
		Str("event", "token_rejected").
		Str("token", SanitizeToken(token)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("token rejected")
}

// LogForbidden records an authorization denial.
func (l *SecurityLogger) LogForbidden(userID int, role, object, action string) {
	l.logger.Warn().
		Str("event", "forbidden").
		Int("user_id", userID).
		Str("role", role).
		Str("object", object).
		Str("action", action).
		Msg("access denied")
}

func (l *SecurityLogger) level(success bool) *zerolog.Event {
	if success {
		return l.logger.Info()
	}
	return l.logger.Warn()
}

// SanitizeToken keeps the first 8 characters of a token.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// SanitizeEmail masks the local part of an e-mail address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}
