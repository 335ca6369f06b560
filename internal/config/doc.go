// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package config loads Cinematch configuration with koanf.
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Struct defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, then config.yaml, config.yml,
//     /etc/cinematch/config.yaml)
//  3. Environment variables, mapped explicitly by envKeyToPath
//
// Environment variables not listed in the mapping are ignored, so
// unrelated process environment never leaks into the configuration.
//
// Example YAML:
//
//	server:
//	  port: 8000
//	database:
//	  path: /data/cinematch.duckdb
//	recommend:
//	  enable_tfidf: true
//	  max_features: 8000
//	cache:
//	  enabled: true
//	  ttl: 10m
//	events:
//	  backend: embedded
package config
