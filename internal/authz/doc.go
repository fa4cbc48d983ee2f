// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package authz decides which actions an authenticated caller may perform.
//
// The Casbin model evaluates (subject, owner, action) requests. Each policy
// line names an action and a rule: "owner" requires subject == owner, "any"
// admits every authenticated subject. The model and policy are embedded and
// can be overridden from disk.
//
//	if err := enforcer.Authorize(ctx, uid, req.UserID, authz.ActionCreatePost, clientIP); err != nil {
//		// errors.Is(err, authz.ErrForbidden)
//	}
package authz
