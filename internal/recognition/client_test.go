// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package recognition

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/upstream"
)

const plantNetResponse = `{
  "query": {"project": "all", "images": ["https://img"], "organs": ["auto"]},
  "bestMatch": "Mentha spicata L.",
  "results": [
    {
      "score": 0.91,
      "species": {
        "scientificNameWithoutAuthor": "Mentha spicata",
        "scientificNameAuthorship": "L.",
        "genus": {"scientificNameWithoutAuthor": "Mentha"},
        "family": {"scientificNameWithoutAuthor": "Lamiaceae"},
        "commonNames": ["Spearmint", "Garden mint"]
      }
    },
    {
      "score": 0.05,
      "species": {
        "scientificNameWithoutAuthor": "Mentha longifolia",
        "family": {"scientificNameWithoutAuthor": "Lamiaceae"},
        "commonNames": []
      }
    }
  ],
  "remainingIdentificationRequests": 498
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.RecognitionConfig{
		BaseURL: server.URL,
		APIKey:  "pn-key",
		Timeout: time.Second,
	}, "ko", upstream.WithBreakerSettings(upstream.BreakerSettings{MinRequests: 100}))
}

func TestIdentify(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/identify/all" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("images") != "https://signed.example/img.jpg?sig=1" {
			t.Errorf("images = %q", q.Get("images"))
		}
		if q.Get("api-key") != "pn-key" || q.Get("lang") != "ko" {
			t.Errorf("query = %v", q)
		}
		fmt.Fprint(w, plantNetResponse)
	})

	candidates, err := c.Identify(context.Background(), "https://signed.example/img.jpg?sig=1")
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len = %d, want 2", len(candidates))
	}
	best := Best(candidates)
	if best.ScientificName != "Mentha spicata" || best.Family != "Lamiaceae" {
		t.Errorf("best = %+v", best)
	}
	if len(best.CommonNames) != 2 {
		t.Errorf("common names = %v", best.CommonNames)
	}
}

func TestIdentify_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty results", http.StatusOK, `{"results":[]}`},
		{"species not found", http.StatusNotFound, `{"statusCode":404,"error":"Not Found","message":"Species not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			candidates, err := c.Identify(context.Background(), "https://img")
			if err != nil {
				t.Fatalf("Identify() error = %v", err)
			}
			if len(candidates) != 0 {
				t.Errorf("candidates = %v, want none", candidates)
			}
			if got := Best(candidates).ScientificName; got != models.Unidentified {
				t.Errorf("Best() = %q, want %q", got, models.Unidentified)
			}
		})
	}
}

func TestIdentify_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"bad key", http.StatusUnauthorized, `{"message":"Invalid API key"}`, ErrUpstream},
		{"quota", http.StatusTooManyRequests, `{}`, ErrUnavailable},
		{"server error", http.StatusInternalServerError, `{}`, ErrUnavailable},
		{"garbage body", http.StatusOK, `<html>`, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := c.Identify(context.Background(), "https://img")
			if !errors.Is(err, tt.want) {
				t.Errorf("Identify() error = %v, want %v", err, tt.want)
			}
		})
	}
}
