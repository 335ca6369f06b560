// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/cinematch.duckdb",
			MaxMemory: "1GB",
		},
		Security: SecurityConfig{
			AccessTokenExpireMinutes: 120,
			BcryptCost:               10,
			AdminEmails:              []string{},
			CORSOrigins:              []string{"*"},
			AuthRateLimitReqs:        20,
			AuthRateLimitWindow:      time.Minute,
			UserRateLimitPerMinute:   60,
			UserRateLimitBurst:       10,
		},
		Recommend: RecommendConfig{
			EnableTFIDF:         true,
			MaxFeatures:         8000,
			DefaultTopN:         20,
			MaxTopN:             100,
			DefaultK:            20,
			MaxK:                100,
			Timeout:             30 * time.Second,
			BreakerEnabled:      true,
			BreakerTimeout:      30 * time.Second,
			BreakerFailureRatio: 0.6,
		},
		Cache: CacheConfig{
			Enabled:    false,
			TTL:        10 * time.Minute,
			GCInterval: 5 * time.Minute,
		},
		Events: EventsConfig{
			Backend:          EventsBackendMemory,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedHost:     "127.0.0.1",
			EmbeddedPort:     -1,
			SubscribersCount: 1,
			QueueGroup:       "",
			CloseTimeout:     10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional config file
// and the environment, then validates it.
func Load() (*Config, error) {
	return load(findConfigFile())
}

type configLayer struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Later layers override earlier ones: defaults, then YAML, then env.
	layers := []configLayer{{"defaults", structs.Provider(defaultConfig(), "koanf"), nil}}
	if configPath != "" {
		layers = append(layers, configLayer{configPath, file.Provider(configPath), yaml.Parser()})
	}
	layers = append(layers, configLayer{"environment", env.Provider("", ".", envKeyToPath), nil})

	for _, l := range layers {
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", l.name, err)
		}
	}

	if err := splitListValues(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if cfg.Security.JWTSecret == "" && !cfg.IsProduction() {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Security.JWTSecret = secret
		cfg.Security.generated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := DefaultConfigPaths
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func randomSecret() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("config: generate JWT secret: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// listKeys hold string lists. From the environment they arrive as one
// comma-separated string.
var listKeys = []string{
	"security.admin_emails",
	"security.cors_origins",
}

func splitListValues(k *koanf.Koanf) error {
	for _, key := range listKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var items []string
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if items == nil {
			items = []string{}
		}
		if err := k.Set(key, items); err != nil {
			return fmt.Errorf("config: set %s: %w", key, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to config
// paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Database
	"database_path":       "database.path",
	"database_max_memory": "database.max_memory",
	"database_threads":    "database.threads",

	// Security
	"jwt_secret":                  "security.jwt_secret",
	"access_token_expire_minutes": "security.access_token_expire_minutes",
	"bcrypt_cost":                 "security.bcrypt_cost",
	"admin_emails":                "security.admin_emails",
	"cors_origins":                "security.cors_origins",
	"authz_policy_path":           "security.authz_policy_path",
	"auth_rate_limit_reqs":        "security.auth_rate_limit_reqs",
	"auth_rate_limit_window":      "security.auth_rate_limit_window",
	"user_rate_limit_per_minute":  "security.user_rate_limit_per_minute",
	"user_rate_limit_burst":       "security.user_rate_limit_burst",
	"disable_rate_limit":          "security.rate_limit_disabled",

	// Recommendation engine
	"enable_tfidf":                    "recommend.enable_tfidf",
	"recommend_max_features":          "recommend.max_features",
	"recommend_default_top_n":         "recommend.default_top_n",
	"recommend_max_top_n":             "recommend.max_top_n",
	"recommend_default_k":             "recommend.default_k",
	"recommend_max_k":                 "recommend.max_k",
	"recommend_timeout":               "recommend.timeout",
	"recommend_breaker_enabled":       "recommend.breaker_enabled",
	"recommend_breaker_timeout":       "recommend.breaker_timeout",
	"recommend_breaker_failure_ratio": "recommend.breaker_failure_ratio",

	// Result cache
	"cache_enabled":     "cache.enabled",
	"cache_ttl":         "cache.ttl",
	"cache_path":        "cache.path",
	"cache_gc_interval": "cache.gc_interval",

	// Events
	"events_backend":       "events.backend",
	"nats_url":             "events.url",
	"nats_embedded_host":   "events.embedded_host",
	"nats_embedded_port":   "events.embedded_port",
	"nats_subscribers":     "events.subscribers_count",
	"nats_queue_group":     "events.queue_group",
	"events_close_timeout": "events.close_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envKeyToPath resolves an environment variable (HTTP_PORT, NATS_URL) to
// its config path. Unknown variables yield "" and koanf skips them.
func envKeyToPath(key string) string {
	return envMappings[strings.ToLower(key)]
}
