// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/herbfinder/internal/logging"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a write that produced no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondJSON writes v as JSON with status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError classifies err and writes {"error": msg}. Server-side
// failures are logged with the request context; the client only sees the
// mapped message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)

	event := logging.Ctx(r.Context()).Debug()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.
		Int("status", status).
		Str("route", logging.SanitizeLogValue(r.URL.Path)).
		Str("error", logging.SanitizeError(err.Error())).
		Msg("Request failed")

	respondJSON(w, status, ErrorResponse{Error: message})
}

// decodeJSON reads a single JSON value from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return ErrInvalidJSON
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

// clientIP returns the caller address after chi's RealIP has run.
func clientIP(r *http.Request) string {
	return r.RemoteAddr
}
