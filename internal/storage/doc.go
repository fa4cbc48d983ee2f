// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package storage resolves client image references to objects in the
// configured bucket and issues short-lived signed read URLs through the S3
// API (minio-go). Google Cloud Storage is reached through its S3
// interoperability endpoint with HMAC keys.
package storage
