// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package upstream is the shared HTTP client for external services.
//
// Every call gets a deadline, an optional token-bucket rate limit
// (golang.org/x/time/rate) and a sony/gobreaker circuit breaker whose state
// is exported to Prometheus. Timeouts, transport failures, 5xx and 429
// responses and open circuits all satisfy errors.Is(err, ErrUnavailable).
// Other non-2xx responses surface as *StatusError so callers can map
// provider-specific error bodies.
package upstream
