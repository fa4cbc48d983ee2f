// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package auth verifies provider-issued ID tokens and guards routes.

# Verifiers

Two interchangeable Verifier implementations are available, selected by
identity.auth_mode:

  - jwks (default): TokenVerifier parses RS256 tokens with golang-jwt and
    resolves signing keys through JWKSCache.
  - oidc: OIDCVerifier delegates to the zitadel relying-party ID token
    verifier with a remote key set.

Both require iss to equal the configured issuer, aud to contain the project
id, a non-empty sub, and an unexpired exp.

# Guard

Guard.Require is chi-compatible middleware:

	r.With(guard.Require).Post("/posts", h.CreatePost)

A missing or malformed Authorization header yields 401 without contacting
the verifier. Credential failures yield 401. Verifier failures such as an
unreachable key set yield 503. On success the AuthSubject is stored in the
request context; read it with GetAuthSubject or UserID.
*/
package auth
