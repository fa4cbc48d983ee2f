// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type echo struct {
	Name string `json:"name"`
}

func TestClient_GetJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing Accept header")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"mint"}`)
	}))
	defer server.Close()

	c := New("test-get", time.Second)
	var out echo
	if err := c.GetJSON(context.Background(), "get", server.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Name != "mint" {
		t.Errorf("Name = %q, want mint", out.Name)
	}
}

func TestClient_PostJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New("test-post", time.Second)
	if err := c.PostJSON(context.Background(), "post", server.URL, echo{Name: "x"}, nil); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		status          int
		wantUnavailable bool
	}{
		{"bad request", http.StatusBadRequest, false},
		{"not found", http.StatusNotFound, false},
		{"too many requests", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"bad gateway", http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"NOPE"}}`)
			}))
			defer server.Close()

			c := New("test-status-"+tt.name, time.Second)
			err := c.GetJSON(context.Background(), "get", server.URL, &echo{})

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *StatusError", err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.status)
			}
			if string(se.Body) != `{"error":{"message":"NOPE"}}` {
				t.Errorf("Body = %q", se.Body)
			}
			if got := errors.Is(err, ErrUnavailable); got != tt.wantUnavailable {
				t.Errorf("errors.Is(ErrUnavailable) = %v, want %v", got, tt.wantUnavailable)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := New("test-timeout", 50*time.Millisecond)
	err := c.GetJSON(context.Background(), "slow", server.URL, &echo{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestClient_BadBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	c := New("test-badbody", time.Second)
	err := c.GetJSON(context.Background(), "get", server.URL, &echo{})
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("err = %v, want ErrBadResponse", err)
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New("test-breaker", time.Second, WithBreakerSettings(BreakerSettings{
		MinRequests: 3,
		Timeout:     time.Minute,
	}))

	for i := 0; i < 3; i++ {
		_ = c.GetJSON(context.Background(), "get", server.URL, &echo{})
	}
	if c.Breaker().State() != "open" {
		t.Fatalf("breaker state = %s, want open", c.Breaker().State())
	}

	before := calls.Load()
	err := c.GetJSON(context.Background(), "get", server.URL, &echo{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if calls.Load() != before {
		t.Error("open breaker must not reach the server")
	}
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := New("test-no-trip", time.Second, WithBreakerSettings(BreakerSettings{MinRequests: 2}))
	for i := 0; i < 5; i++ {
		_ = c.GetJSON(context.Background(), "get", server.URL, &echo{})
	}
	if c.Breaker().State() != "closed" {
		t.Errorf("breaker state = %s, want closed", c.Breaker().State())
	}
}

func TestClient_RateLimitHonorsTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	// One token per minute: the second call cannot be admitted within the timeout.
	c := New("test-ratelimit", 100*time.Millisecond, WithRateLimit(1.0/60, 1))
	if err := c.GetJSON(context.Background(), "get", server.URL, &echo{}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	err := c.GetJSON(context.Background(), "get", server.URL, &echo{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
