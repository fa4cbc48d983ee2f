// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package identify runs the identification pipeline shared by post creation
and the analyze endpoint.

For one image reference the pipeline:

 1. resolves the reference to an object and checks that it exists
 2. signs a short-lived read URL
 3. probes the identification cache by Key(reference)
 4. on a miss, calls recognition with the signed URL and keeps the best
    candidate, or models.Unidentified when there is none
 5. ensures a plant knowledge entry exists for the species, translating
    its names and attaching an encyclopedia summary
 6. overwrites the cache entry

Concurrent requests for the same reference share one recognition call.
Cache read and write failures are logged and the request proceeds as a
miss. A translation failure leaves names untranslated for that request and
the knowledge entry is not persisted, so the next request retries.
*/
package identify
