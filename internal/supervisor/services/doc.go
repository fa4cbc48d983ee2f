// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package services adapts Herbfinder components to suture's Serve pattern.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService wraps *http.Server. It runs ListenAndServe in a goroutine
and calls Shutdown with a bounded timeout when the context is canceled.

CacheJanitorService calls Purge on the identification cache every interval.
Purge errors are logged and counted; they do not stop the loop, so a
temporarily unreachable cache backend does not cause supervisor restarts.
*/
package services
