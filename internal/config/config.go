// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB file. ":memory:" keeps everything in process.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
}

// SecurityConfig holds authentication, authorization and rate limit
// settings.
type SecurityConfig struct {
	JWTSecret                string   `koanf:"jwt_secret"`
	AccessTokenExpireMinutes int      `koanf:"access_token_expire_minutes"`
	BcryptCost               int      `koanf:"bcrypt_cost"`
	AdminEmails              []string `koanf:"admin_emails"`
	CORSOrigins              []string `koanf:"cors_origins"`

	// AuthzPolicyPath is a Casbin policy CSV replacing the built-in
	// policy. Empty uses the built-in policy.
	AuthzPolicyPath string `koanf:"authz_policy_path"`

	// AuthRateLimitReqs bounds signup and login requests per client IP
	// within AuthRateLimitWindow.
	AuthRateLimitReqs   int           `koanf:"auth_rate_limit_reqs"`
	AuthRateLimitWindow time.Duration `koanf:"auth_rate_limit_window"`

	// UserRateLimitPerMinute bounds recommendation requests per user.
	UserRateLimitPerMinute int  `koanf:"user_rate_limit_per_minute"`
	UserRateLimitBurst     int  `koanf:"user_rate_limit_burst"`
	RateLimitDisabled      bool `koanf:"rate_limit_disabled"`

	// generated is set when Load filled JWTSecret with a random value.
	generated bool
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	EnableTFIDF bool          `koanf:"enable_tfidf"`
	MaxFeatures int           `koanf:"max_features"`
	DefaultTopN int           `koanf:"default_top_n"`
	MaxTopN     int           `koanf:"max_top_n"`
	DefaultK    int           `koanf:"default_k"`
	MaxK        int           `koanf:"max_k"`
	Timeout     time.Duration `koanf:"timeout"`

	// Breaker settings guard the store against cascading failures.
	BreakerEnabled      bool          `koanf:"breaker_enabled"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`

	// Path is the badger directory. Empty runs the cache in memory.
	Path       string        `koanf:"path"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// EventsConfig holds change event settings.
type EventsConfig struct {
	// Backend is memory, nats or embedded.
	Backend          string `koanf:"backend"`
	URL              string `koanf:"url"`
	EmbeddedHost     string `koanf:"embedded_host"`
	EmbeddedPort     int    `koanf:"embedded_port"`
	SubscribersCount int    `koanf:"subscribers_count"`
	// QueueGroup spreads each event over the subscribers that share it.
	// Empty by default so every replica purges its own cache.
	QueueGroup   string        `koanf:"queue_group"`
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Event backends.
const (
	EventsBackendMemory   = "memory"
	EventsBackendNATS     = "nats"
	EventsBackendEmbedded = "embedded"
)

// AccessTokenTTL returns the JWT lifetime.
func (s *SecurityConfig) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenExpireMinutes) * time.Minute
}

// GeneratedSecret reports whether the JWT secret was generated at startup
// because none was configured.
func (s *SecurityConfig) GeneratedSecret() bool {
	return s.generated
}

// IsAdminEmail reports whether email is listed in AdminEmails.
func (s *SecurityConfig) IsAdminEmail(email string) bool {
	for _, admin := range s.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

// IsProduction returns true when ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}
