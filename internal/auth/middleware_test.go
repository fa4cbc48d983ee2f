// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// stubVerifier returns a fixed result and counts calls.
type stubVerifier struct {
	subject *AuthSubject
	err     error
	calls   atomic.Int32
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*AuthSubject, error) {
	s.calls.Add(1)
	return s.subject, s.err
}

func (s *stubVerifier) Name() string { return "stub" }

func TestGuard_Require(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		subject    *AuthSubject
		err        error
		wantStatus int
		wantCalls  int32
	}{
		{"missing header", "", nil, nil, http.StatusUnauthorized, 0},
		{"wrong scheme", "Basic dXNlcjpwYXNz", nil, nil, http.StatusUnauthorized, 0},
		{"empty bearer", "Bearer ", nil, nil, http.StatusUnauthorized, 0},
		{"invalid token", "Bearer bad", nil, ErrInvalidCredentials, http.StatusUnauthorized, 1},
		{"expired token", "Bearer old", nil, ErrExpiredCredentials, http.StatusUnauthorized, 1},
		{"provider down", "Bearer tok", nil, ErrAuthenticatorUnavailable, http.StatusServiceUnavailable, 1},
		{"valid", "Bearer tok", &AuthSubject{ID: "uid-1"}, nil, http.StatusOK, 1},
		{"lowercase scheme", "bearer tok", &AuthSubject{ID: "uid-1"}, nil, http.StatusOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubVerifier{subject: tt.subject, err: tt.err}
			guard := NewGuard(stub)

			var gotUID string
			handler := guard.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID = UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := stub.calls.Load(); got != tt.wantCalls {
				t.Errorf("verifier calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantStatus == http.StatusOK {
				if gotUID != "uid-1" {
					t.Errorf("UserID = %q, want uid-1", gotUID)
				}
				return
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body = %q, want JSON error", rec.Body.String())
			}
		})
	}
}

func TestGuard_Verify(t *testing.T) {
	t.Parallel()

	stub := &stubVerifier{subject: &AuthSubject{ID: "uid-9"}}
	guard := NewGuard(stub)

	if _, err := guard.Verify(context.Background(), ""); err != ErrNoCredentials {
		t.Errorf("Verify(\"\") error = %v, want ErrNoCredentials", err)
	}
	subject, err := guard.Verify(context.Background(), "tok")
	if err != nil || subject.ID != "uid-9" {
		t.Errorf("Verify() = %v, %v", subject, err)
	}
}

func TestGetAuthSubject_Empty(t *testing.T) {
	t.Parallel()

	if GetAuthSubject(context.Background()) != nil {
		t.Error("expected nil subject")
	}
	if UserID(context.Background()) != "" {
		t.Error("expected empty uid")
	}
}

func TestGuard_EndToEndWithTokenVerifier(t *testing.T) {
	t.Parallel()
	m := newMockIssuer(t)
	guard := NewGuard(newTestTokenVerifier(m))

	handler := guard.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserID(r.Context())))
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/uid-55/posts", nil)
	req.Header.Set("Authorization", "Bearer "+m.sign(t, tokenOpts{subject: "uid-55"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "uid-55" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
