// Cinematch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered on the default registry through promauto and
exported at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Database:
  - cinematch_db_query_duration_seconds{operation,table}
  - cinematch_db_query_errors_total{operation,table}

API:
  - cinematch_api_requests_total{method,endpoint,status}
  - cinematch_api_request_duration_seconds{method,endpoint}
  - cinematch_api_active_requests

Recommendations:
  - cinematch_recommend_duration_seconds{strategy}
  - cinematch_recommend_requests_total{strategy,fallback}
  - cinematch_recommend_errors_total{strategy}
  - cinematch_recommend_cache_hits_total, _misses_total, _purges_total

Resilience and events:
  - cinematch_circuit_breaker_state{name}
  - cinematch_circuit_breaker_requests_total{name,result}
  - cinematch_circuit_breaker_transitions_total{name,from,to}
  - cinematch_events_published_total{topic,result}
  - cinematch_events_consumed_total{topic,result}
  - cinematch_auth_attempts_total{operation,result}
*/
package metrics
