// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package metrics

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of Postgres queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of Postgres query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream Service Metrics (identity, storage, recognition, translation, knowledge)
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of calls to external services in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service", "operation"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total number of failed calls to external services",
		},
		[]string{"service", "operation", "error_type"},
	)

	// Identification Metrics
	IdentificationCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identification_cache_hits_total",
			Help: "Identification cache hits",
		},
		[]string{"backend"},
	)

	IdentificationCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identification_cache_misses_total",
			Help: "Identification cache misses",
		},
		[]string{"backend"},
	)

	IdentificationCachePurged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identification_cache_purged_total",
			Help: "Expired identification cache entries removed by the janitor",
		},
		[]string{"backend"},
	)

	RecognitionResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recognition_results_total",
			Help: "Recognition calls by outcome",
		},
		[]string{"result"}, // identified, unidentified, error
	)

	KnowledgeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plant_knowledge_cache_hits_total",
			Help: "Plant knowledge lookups served from the store",
		},
	)

	KnowledgeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plant_knowledge_cache_misses_total",
			Help: "Plant knowledge lookups that required translation and enrichment",
		},
	)

	// Social Feed Metrics
	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts created",
		},
	)

	LikesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "likes_total",
			Help: "Like requests by outcome",
		},
		[]string{"result"}, // new, duplicate
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_created_total",
			Help: "Total number of comments created",
		},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"result"}, // success, duplicate_email, weak_password, error, rolled_back
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query. errType is a bounded category
// such as "not_found" or "timeout"; pass "" on success.
func RecordDBQuery(operation, table string, duration time.Duration, errType string) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if errType != "" {
		DBQueryErrors.WithLabelValues(operation, table, errType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamCall records one call to an external service.
func RecordUpstreamCall(service, operation string, duration time.Duration, err error) {
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
	if err != nil {
		UpstreamErrors.WithLabelValues(service, operation, ErrorType(err)).Inc()
	}
}

// ErrorType buckets err into a low-cardinality label value.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// RecordIdentificationLookup records a cache probe for backend.
func RecordIdentificationLookup(backend string, hit bool) {
	if hit {
		IdentificationCacheHits.WithLabelValues(backend).Inc()
		return
	}
	IdentificationCacheMisses.WithLabelValues(backend).Inc()
}

// RecordLike records the outcome of a like request.
func RecordLike(created bool) {
	if created {
		LikesRecorded.WithLabelValues("new").Inc()
		return
	}
	LikesRecorded.WithLabelValues("duplicate").Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
