// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// placeholderPatterns flag secrets copied from example files.
var placeholderPatterns = []string{"CHANGEME", "CHANGE_ME", "REPLACE", "YOUR_", "EXAMPLE", "SECRET_HERE"}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DATABASE_THREADS must be non-negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := &c.Security
	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENVIRONMENT=production")
	}
	if len(s.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(s.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	if s.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", s.AccessTokenExpireMinutes)
	}
	if s.BcryptCost < 4 || s.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", s.BcryptCost)
	}
	if !s.RateLimitDisabled {
		if s.AuthRateLimitReqs <= 0 || s.AuthRateLimitWindow <= 0 {
			return fmt.Errorf("AUTH_RATE_LIMIT_REQS and AUTH_RATE_LIMIT_WINDOW must be positive")
		}
		if s.UserRateLimitPerMinute <= 0 || s.UserRateLimitBurst <= 0 {
			return fmt.Errorf("USER_RATE_LIMIT_PER_MINUTE and USER_RATE_LIMIT_BURST must be positive")
		}
	}
	if c.IsProduction() {
		for _, origin := range s.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production")
			}
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.MaxFeatures <= 0 {
		return fmt.Errorf("RECOMMEND_MAX_FEATURES must be positive, got %d", r.MaxFeatures)
	}
	if r.MaxTopN <= 0 || r.DefaultTopN <= 0 || r.DefaultTopN > r.MaxTopN {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be in [1, RECOMMEND_MAX_TOP_N]")
	}
	if r.MaxK <= 0 || r.DefaultK <= 0 || r.DefaultK > r.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be in [1, RECOMMEND_MAX_K]")
	}
	if r.Timeout < 0 {
		return fmt.Errorf("RECOMMEND_TIMEOUT must be non-negative")
	}
	if r.BreakerEnabled && (r.BreakerFailureRatio <= 0 || r.BreakerFailureRatio > 1) {
		return fmt.Errorf("RECOMMEND_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", r.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	if c.Cache.GCInterval <= 0 {
		return fmt.Errorf("CACHE_GC_INTERVAL must be positive when CACHE_ENABLED=true")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case EventsBackendMemory:
		return nil
	case EventsBackendNATS:
		u, err := url.Parse(c.Events.URL)
		if err != nil || (u.Scheme != "nats" && u.Scheme != "tls") || u.Host == "" {
			return fmt.Errorf("NATS_URL must be a nats:// or tls:// URL when EVENTS_BACKEND=nats, got %q", c.Events.URL)
		}
	case EventsBackendEmbedded:
		if c.Events.EmbeddedPort < -1 || c.Events.EmbeddedPort > 65535 {
			return fmt.Errorf("NATS_EMBEDDED_PORT must be -1 (random) or a valid port, got %d", c.Events.EmbeddedPort)
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of memory, nats, embedded, got %q", c.Events.Backend)
	}
	if c.Events.SubscribersCount <= 0 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
