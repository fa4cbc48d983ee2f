// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable marks failures the caller may retry later: timeouts,
	// transport errors, 5xx and 429 responses, and open circuits.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrBadResponse is returned when a 2xx body cannot be decoded.
	ErrBadResponse = errors.New("upstream returned an unreadable response")
)

// StatusError is a non-2xx response. Body holds at most the first few
// hundred bytes of the response for provider-specific error mapping.
type StatusError struct {
	Service    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
}

// Retryable reports whether the status indicates a server-side or
// throttling failure.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Unwrap lets errors.Is(err, ErrUnavailable) match retryable statuses.
func (e *StatusError) Unwrap() error {
	if e.Retryable() {
		return ErrUnavailable
	}
	return nil
}

type unavailableError struct {
	service string
	err     error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.service, e.err)
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}
