// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package identcache stores the last recognition result for each image URL so
that resubmitting an image never pays for a second recognition call.

Entries are keyed by Key(imageURL), the SHA-256 hex digest of the exact URL
string. Three backends are available, selected by cache.backend:

  - postgres: the identifications table, expired rows removed by Purge
  - redis: JSON strings with native key expiry
  - badger: an embedded store with per-entry TTL

All backends treat Put as an unconditional overwrite.
*/
package identcache
