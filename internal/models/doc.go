// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package models defines the data structures shared by the store, the
identification pipeline and the HTTP layer.

Persisted records:

  - User: profile written after the identity provider account exists
  - Post: a photo with its identification result and social counters
  - Comment: text attached to a post
  - Like: a unique (user, post) pair
  - Identification: cached recognition result keyed by image URL hash
  - PlantKnowledge: translated metadata keyed by scientific name

JSON field names are camelCase. Timestamps are assigned by the store and
serialize as RFC 3339.
*/
package models
