// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

/*
Package api exposes the HTTP interface using the chi router.

Routes:

	GET  /                          liveness text
	POST /create_user               register an account and profile
	POST /verify_token              exchange {idToken} for {uid}
	GET  /posts                     feed, newest first (limit, startAfter)
	POST /posts                     create a post and identify its image   [bearer]
	GET  /users/{userID}/posts      one user's posts                       [bearer]
	POST /posts/{postID}/like       idempotent like                        [bearer]
	POST /posts/{postID}/comments   add a comment                          [bearer]
	GET  /posts/{postID}/comments   list comments, oldest first
	POST /analyze_plant_image       identification only                    [bearer, configurable]
	GET  /health/live, /health/ready
	GET  /metrics, /swagger/*

Every error body has the form {"error": "<message>"}. Status codes are chosen
in one place, classifyError, from the sentinel errors of the packages behind
the handlers.

Handlers depend on small interfaces (Store, Accounts, Analyzer, Authorizer,
TokenVerifier) so that they can be exercised with fakes.
*/
package api
