// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package logging provides the zerolog-based logger shared by every Herbfinder
// component.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("bucket", bucket).Msg("Object store ready")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Recognition call failed")
//
// # Request Correlation
//
// The HTTP layer stores a request ID in the request context. Ctx(ctx) returns
// a logger that carries request_id and correlation_id, so every line written
// while serving a request can be joined back together.
//
// # Supervisor Integration
//
// NewSlogLogger bridges zerolog to log/slog for sutureslog.
//
// # Security Events
//
// SecurityLogger records registration, token and authorization outcomes with
// emails, tokens and user IDs masked before they reach the log sink.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
