// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package recognition identifies plant species from an image URL using the
// PlantNet API. Outbound calls are rate limited and protected by a circuit
// breaker; see package upstream.
package recognition
