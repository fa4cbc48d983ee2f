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
	"net/url"
	"strings"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/upstream"
)

var (
	// ErrUnavailable is returned on timeout, throttling, 5xx or an open circuit.
	ErrUnavailable = upstream.ErrUnavailable

	// ErrUpstream is returned on any other transport or protocol failure,
	// such as a rejected API key or an unreadable body.
	ErrUpstream = errors.New("recognition service error")
)

// Candidate is one ranked species match.
type Candidate struct {
	Score   float64
	Species models.Species
}

// Client calls the PlantNet identification API.
type Client struct {
	up      *upstream.Client
	baseURL string
	apiKey  string
	project string
	lang    string
}

// New creates a recognition client. Calls are rate limited to
// cfg.RatePerSecond with cfg.Burst.
func New(cfg config.RecognitionConfig, lang string, opts ...upstream.Option) *Client {
	opts = append([]upstream.Option{upstream.WithRateLimit(cfg.RatePerSecond, cfg.Burst)}, opts...)
	project := cfg.Project
	if project == "" {
		project = "all"
	}
	return &Client{
		up:      upstream.New("recognition", cfg.Timeout, opts...),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		project: project,
		lang:    lang,
	}
}

type identifyResponse struct {
	BestMatch string `json:"bestMatch"`
	Results   []struct {
		Score   float64 `json:"score"`
		Species struct {
			ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
			CommonNames                 []string `json:"commonNames"`
			Family                      struct {
				ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
			} `json:"family"`
		} `json:"species"`
	} `json:"results"`
	RemainingIdentificationRequests int `json:"remainingIdentificationRequests"`
}

// Identify returns candidates for the image at imageURL, best first. An
// image with no match yields an empty slice and no error.
func (c *Client) Identify(ctx context.Context, imageURL string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("images", imageURL)
	q.Set("organs", "auto")
	q.Set("api-key", c.apiKey)
	if c.lang != "" {
		q.Set("lang", c.lang)
	}
	reqURL := c.baseURL + "/v2/identify/" + url.PathEscape(c.project) + "?" + q.Encode()

	var resp identifyResponse
	if err := c.up.GetJSON(ctx, "identify", reqURL, &resp); err != nil {
		// PlantNet answers 404 "Species not found" when nothing matches.
		var se *upstream.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			metrics.RecognitionResults.WithLabelValues("unidentified").Inc()
			return []Candidate{}, nil
		}
		metrics.RecognitionResults.WithLabelValues("error").Inc()
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		name := strings.TrimSpace(r.Species.ScientificNameWithoutAuthor)
		if name == "" {
			continue
		}
		names := r.Species.CommonNames
		if names == nil {
			names = []string{}
		}
		candidates = append(candidates, Candidate{
			Score: r.Score,
			Species: models.Species{
				ScientificName: name,
				CommonNames:    names,
				Family:         r.Species.Family.ScientificNameWithoutAuthor,
			},
		})
	}

	if len(candidates) == 0 {
		metrics.RecognitionResults.WithLabelValues("unidentified").Inc()
	} else {
		metrics.RecognitionResults.WithLabelValues("identified").Inc()
	}
	return candidates, nil
}

// Best returns the top species, or models.Unidentified when there are no
// candidates.
func Best(candidates []Candidate) models.Species {
	if len(candidates) == 0 {
		return models.Species{ScientificName: models.Unidentified, CommonNames: []string{}}
	}
	return candidates[0].Species
}
