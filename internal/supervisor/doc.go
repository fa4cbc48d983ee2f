// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package supervisor runs Herbfinder's long-lived services under suture v4.

The tree has two layers so that a failing background job never takes the
HTTP listener down with it:

	RootSupervisor ("herbfinder")
	├── DataSupervisor ("data-layer")
	│   └── CacheJanitorService (when cache.purge_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog, backed by the zerolog slog adapter in internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCacheJanitorService(cache, cfg.Cache.PurgeInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

Wrappers for individual components live in the services subpackage.
*/
package supervisor
