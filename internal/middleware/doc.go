// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package middleware provides chi-compatible HTTP middleware shared by every
route.

  - RequestID: propagates or generates X-Request-ID and seeds the logging
    context with request and correlation ids
  - PrometheusMetrics: records method, route pattern, status and duration
  - AccessLog: one structured log line per request

The router installs them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

Route patterns rather than raw paths are used as the metrics label so that
post ids do not create unbounded label cardinality.
*/
package middleware
