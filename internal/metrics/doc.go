// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package metrics provides Prometheus metrics for Herbfinder.

Metrics are registered on the default registry via promauto and exposed at
/metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Postgres:
  - db_query_duration_seconds{operation, table}
  - db_query_errors_total{operation, table, error_type}

External services:
  - upstream_request_duration_seconds{service, operation}
  - upstream_errors_total{service, operation, error_type}
  - circuit_breaker_state{name} and related breaker counters

Identification pipeline:
  - identification_cache_hits_total{backend}, identification_cache_misses_total{backend}
  - identification_cache_purged_total{backend}
  - recognition_results_total{result}
  - plant_knowledge_cache_hits_total, plant_knowledge_cache_misses_total

Feed:
  - posts_created_total, comments_created_total
  - likes_total{result}
  - user_registrations_total{result}

The endpoint label is the chi route pattern (for example /posts/{id}/like),
never the raw path, so cardinality stays bounded.
*/
package metrics
