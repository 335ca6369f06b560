// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// UserStore is the account storage used by Service.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements signup and login.
type Service struct {
	users    UserStore
	hasher   *PasswordHasher
	tokens   *JWTManager
	security *config.SecurityConfig
	secLog   *logging.SecurityLogger
}

// NewService wires a Service.
func NewService(users UserStore, tokens *JWTManager, security *config.SecurityConfig) *Service {
	return &Service{
		users:    users,
		hasher:   NewPasswordHasher(security.BcryptCost),
		tokens:   tokens,
		security: security,
		secLog:   logging.NewSecurityLogger(),
	}
}

// Signup registers a new account and returns its token. Addresses listed
// in AdminEmails receive the admin role. database.ErrDuplicateEmail is
// returned for a registered address.
func (s *Service) Signup(ctx context.Context, email, password, ip string) (*models.TokenResponse, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	role := models.RoleUser
	if s.security.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	user, err := s.users.CreateUser(ctx, email, hash, role)
	if err != nil {
		metrics.RecordAuthAttempt("signup", false)
		reason := "store error"
		if errors.Is(err, database.ErrDuplicateEmail) {
			reason = "duplicate email"
		}
		s.secLog.LogSignup(email, ip, false, reason)
		return nil, err
	}

	metrics.RecordAuthAttempt("signup", true)
	s.secLog.LogSignup(user.Email, ip, true, "")
	return s.issue(user)
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password, ip string) (*models.TokenResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		s.hasher.compareDummy(password)
		metrics.RecordAuthAttempt("login", false)
		s.secLog.LogLoginFailure(email, ip, "unknown email")
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.RecordAuthAttempt("login", false)
		s.secLog.LogLoginFailure(email, ip, "wrong password")
		return nil, err
	}

	metrics.RecordAuthAttempt("login", true)
	s.secLog.LogLoginSuccess(user.ID, user.Email, ip)
	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*models.TokenResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}
