// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/authz"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/identcache"
	"github.com/tomtom215/herbfinder/internal/identity"
	"github.com/tomtom215/herbfinder/internal/recognition"
	"github.com/tomtom215/herbfinder/internal/storage"
	"github.com/tomtom215/herbfinder/internal/upstream"
	"github.com/tomtom215/herbfinder/internal/validation"
)

// Error is a request error with a fixed status and client message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Request errors raised by handlers before any external call.
var (
	ErrInvalidJSON   = &Error{http.StatusBadRequest, "request body must be a JSON object"}
	ErrBodyTooLarge  = &Error{http.StatusBadRequest, "request body too large"}
	ErrTokenRequired = &Error{http.StatusBadRequest, "idToken is required"}
	ErrInvalidLimit  = &Error{http.StatusBadRequest, "limit must be a positive integer"}
	ErrUserNotFound  = &Error{http.StatusNotFound, "user not found"}
	ErrPostNotFound  = &Error{http.StatusNotFound, "post not found"}
)

// Client messages for mapped errors. Provider details never reach the body.
const (
	msgForbidden      = "forbidden"
	msgUnauthorized   = "authentication required"
	msgInvalidToken   = "invalid or expired token"
	msgEmailExists    = "email already registered"
	msgWeakPassword   = "password must be at least 6 characters"
	msgInvalidEmail   = "invalid email address"
	msgImageNotFound  = "image not found"
	msgInvalidImage   = "invalid image reference"
	msgNotFound       = "not found"
	msgConflict       = "already exists"
	msgUnavailable    = "service temporarily unavailable"
	msgUpstreamFailed = "upstream service error"
	msgInternal       = "internal server error"
)

// classifyError maps err to a status code and client message. Exactly one
// entry matches; order puts specific sentinels before generic ones.
func classifyError(err error) (int, string) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}

	switch {
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, msgForbidden

	case errors.Is(err, auth.ErrNoCredentials):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, auth.ErrAuthenticatorUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrExpiredCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken

	case errors.Is(err, identity.ErrEmailExists):
		return http.StatusConflict, msgEmailExists
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest, msgWeakPassword
	case errors.Is(err, identity.ErrInvalidEmail):
		return http.StatusBadRequest, msgInvalidEmail

	case errors.Is(err, storage.ErrInvalidReference):
		return http.StatusBadRequest, msgInvalidImage
	case errors.Is(err, storage.ErrImageNotFound):
		return http.StatusNotFound, msgImageNotFound
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, database.ErrAlreadyExists):
		return http.StatusConflict, msgConflict

	case errors.Is(err, upstream.ErrUnavailable),
		errors.Is(err, storage.ErrUnavailable),
		errors.Is(err, database.ErrUnavailable),
		errors.Is(err, identcache.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, msgUnavailable

	case errors.Is(err, recognition.ErrUpstream),
		errors.Is(err, upstream.ErrBadResponse),
		isStatusError(err):
		return http.StatusBadGateway, msgUpstreamFailed
	}

	return http.StatusInternalServerError, msgInternal
}

func isStatusError(err error) bool {
	var se *upstream.StatusError
	return errors.As(err, &se)
}
