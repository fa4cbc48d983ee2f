// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokenVerifications counts bearer token checks.
	// Labels:
	//   - verifier: "jwks" or "oidc"
	//   - outcome: "success", "missing", "invalid", "expired", "unavailable"
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of bearer token verifications",
		},
		[]string{"verifier", "outcome"},
	)

	// JWKSFetchDuration measures key set fetch latency.
	JWKSFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_jwks_fetch_duration_seconds",
			Help:    "Duration of JWKS fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	// JWKSFetchErrors counts failed key set fetches.
	JWKSFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_jwks_fetch_errors_total",
			Help: "Total number of failed JWKS fetches",
		},
	)
)

// RecordVerification records one verification outcome.
func RecordVerification(verifier, outcome string) {
	TokenVerifications.WithLabelValues(verifier, outcome).Inc()
}

// RecordJWKSFetch records a key set fetch.
func RecordJWKSFetch(duration time.Duration, err error) {
	JWKSFetchDuration.Observe(duration.Seconds())
	if err != nil {
		JWKSFetchErrors.Inc()
	}
}
