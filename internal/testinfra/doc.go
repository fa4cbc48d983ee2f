// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

//go:build integration

// Package testinfra starts the backing services used by integration tests.
//
// Every helper skips the calling test when Docker is unavailable and
// terminates its container through t.Cleanup:
//
//	func TestStore(t *testing.T) {
//	    dsn := testinfra.NewPostgres(t)
//	    addr := testinfra.NewRedis(t)
//	    ...
//	}
//
// Build with -tags integration.
package testinfra
