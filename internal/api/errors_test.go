// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func TestClassifyError(t *testing.T) {
	t.Parallel()

	type sample struct {
		Name string `json:"name" validate:"notblank"`
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"api error", ErrInvalidLimit, http.StatusBadRequest},
		{"validation", validation.ValidateStruct(&sample{}), http.StatusBadRequest},
		{"forbidden", fmt.Errorf("%w: post:create", authz.ErrForbidden), http.StatusForbidden},
		{"no credentials", auth.ErrNoCredentials, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired", auth.ErrExpiredCredentials, http.StatusUnauthorized},
		{"auth unavailable", auth.ErrAuthenticatorUnavailable, http.StatusServiceUnavailable},
		{"email exists", identity.ErrEmailExists, http.StatusConflict},
		{"weak password", identity.ErrWeakPassword, http.StatusBadRequest},
		{"invalid email", identity.ErrInvalidEmail, http.StatusBadRequest},
		{"foreign host", referenceError("https://example.com/mint.jpg"), http.StatusBadRequest},
		{"wrong bucket", referenceError("gs://other-bucket/mint.jpg"), http.StatusBadRequest},
		{"image missing", storage.ErrImageNotFound, http.StatusNotFound},
		{"row missing", database.ErrNotFound, http.StatusNotFound},
		{"conflict", database.ErrAlreadyExists, http.StatusConflict},
		{"db timeout", fmt.Errorf("%w: %w", database.ErrUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"storage down", storage.ErrUnavailable, http.StatusServiceUnavailable},
		{"cache down", identcache.ErrUnavailable, http.StatusServiceUnavailable},
		{"recognition down", recognition.ErrUnavailable, http.StatusServiceUnavailable},
		{"recognition 5xx", &upstream.StatusError{Service: "recognition", StatusCode: 500}, http.StatusServiceUnavailable},
		{"recognition rejected", fmt.Errorf("%w: bad key", recognition.ErrUpstream), http.StatusBadGateway},
		{"provider 4xx", &upstream.StatusError{Service: "identity", StatusCode: 400}, http.StatusBadGateway},
		{"bad body", upstream.ErrBadResponse, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, msg := classifyError(tt.err)
			if got != tt.want {
				t.Errorf("classifyError(%v) = %d, want %d", tt.err, got, tt.want)
			}
			if msg == "" {
				t.Error("empty message")
			}
		})
	}
}

// referenceError returns the parser's error for an image reference that does
// not name an object in the test bucket.
func referenceError(ref string) error {
	if _, err := storage.ResolveObjectKey(ref, "herb-bucket"); err != nil {
		return fmt.Errorf("resolve image: %w", err)
	}
	return nil
}

func TestRespondError_HidesInternals(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	respondError(rec, req, errors.New("pq: password authentication failed for user herb"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("body leaks internals: %s", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	t.Parallel()

	body := `{"content":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var dst CreateCommentRequest
	if err := decodeJSON(rec, req, &dst); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("decodeJSON() error = %v, want ErrBodyTooLarge", err)
	}
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)
	rec := ts.do(t, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if errorMessage(t, rec) == "" {
		t.Error("missing error field")
	}
}
