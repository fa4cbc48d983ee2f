// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// Package knowledge looks up a short localized description of a species
// from the Wikipedia REST page summary endpoint.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/upstream"
)

// ErrUpstream is returned on any lookup failure other than a missing page.
var ErrUpstream = errors.New("knowledge service error")

// Summary is the enrichment attached to a plant knowledge entry.
type Summary struct {
	Title       string
	Description string
	ImageURL    string
	PageURL     string
}

// Client fetches page summaries.
type Client struct {
	up       *upstream.Client
	enabled  bool
	endpoint string
}

// New creates a knowledge client rooted at cfg.Endpoint().
func New(cfg config.KnowledgeConfig, opts ...upstream.Option) *Client {
	return &Client{
		up:       upstream.New("knowledge", cfg.Timeout, opts...),
		enabled:  cfg.Enabled,
		endpoint: strings.TrimRight(cfg.Endpoint(), "/"),
	}
}

// Enabled reports whether lookups are performed.
func (c *Client) Enabled() bool { return c.enabled }

type summaryResponse struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Lookup returns the summary for title. It returns nil and no error when
// the client is disabled, the page does not exist or the title is
// ambiguous.
func (c *Client) Lookup(ctx context.Context, title string) (*Summary, error) {
	title = strings.TrimSpace(title)
	if !c.enabled || title == "" {
		return nil, nil
	}

	reqURL := c.endpoint + "/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	var resp summaryResponse
	if err := c.up.GetJSON(ctx, "summary", reqURL, &resp); err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if resp.Type == "disambiguation" || strings.TrimSpace(resp.Extract) == "" {
		return nil, nil
	}
	return &Summary{
		Title:       resp.Title,
		Description: resp.Extract,
		ImageURL:    resp.Thumbnail.Source,
		PageURL:     resp.ContentURLs.Desktop.Page,
	}, nil
}
