// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package identity creates and deletes accounts at the Identity Toolkit
// REST API. Token verification lives in package auth.
package identity
