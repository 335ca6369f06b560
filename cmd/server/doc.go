// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package main is the entry point for the Cinematch server.

Cinematch serves movie recommendations over a JSON HTTP API: TF-IDF
content-based recommendations, user-KNN collaborative filtering, and a
popularity fallback for users without usable history.

# Application Architecture

	RootSupervisor ("cinematch")
	├── DataSupervisor ("data-layer")
	│   └── cache-gc (persistent result cache only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── cache-invalidator (result cache enabled only)
	└── APISupervisor ("api-layer")
	    ├── http-server
	    └── rate-limiter-cleanup

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB catalogue, ratings and users
 4. Recommendation engine: circuit breaker and badger result cache
 5. Change events: Watermill over GoChannel, NATS or embedded NATS
 6. Authentication and authorization: JWT and Casbin RBAC
 7. HTTP router: chi with request ID, access log, CORS and metrics
 8. Supervisor tree: suture v4

# Configuration

Common environment variables:

	DATABASE_PATH=/data/cinematch.duckdb
	JWT_SECRET=$(openssl rand -base64 32)
	ADMIN_EMAILS=admin@example.com
	CACHE_ENABLED=true
	EVENTS_BACKEND=embedded

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, then the event bus, result
cache and database are closed in that order.
*/
package main
