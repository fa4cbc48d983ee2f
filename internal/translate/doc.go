// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package translate localizes species names through the Google Cloud
// Translation v2 REST API.
//
// Blank inputs are never sent upstream and come back unchanged in their
// original positions. A disabled client returns its input as-is, which lets
// deployments without a translation key run in the source language.
package translate
