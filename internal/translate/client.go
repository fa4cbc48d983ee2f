// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package translate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/upstream"
)

var (
	// ErrUnavailable is returned on timeout, throttling, 5xx or an open circuit.
	ErrUnavailable = upstream.ErrUnavailable

	// ErrUpstream is returned on a rejected key or a malformed response.
	ErrUpstream = errors.New("translation service error")
)

// Client translates short strings into one target language.
type Client struct {
	up      *upstream.Client
	enabled bool
	baseURL string
	apiKey  string
	target  string
}

// New creates a translation client for cfg.TargetLanguage.
func New(cfg config.TranslationConfig, opts ...upstream.Option) *Client {
	return &Client{
		up:      upstream.New("translation", cfg.Timeout, opts...),
		enabled: cfg.Enabled,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		target:  cfg.TargetLanguage,
	}
}

// Enabled reports whether calls reach the translation service.
func (c *Client) Enabled() bool { return c.enabled }

// Target returns the target language code.
func (c *Client) Target() string { return c.target }

type translateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate returns texts translated to the target language, index for
// index. Blank entries are skipped and returned unchanged.
func (c *Client) Translate(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	copy(out, texts)
	if !c.enabled {
		return out, nil
	}

	var (
		q       []string
		indexes []int
	)
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		q = append(q, t)
		indexes = append(indexes, i)
	}
	if len(q) == 0 {
		return out, nil
	}

	reqURL := c.baseURL + "/language/translate/v2?key=" + url.QueryEscape(c.apiKey)
	var resp translateResponse
	err := c.up.PostJSON(ctx, "translate", reqURL, translateRequest{
		Q:      q,
		Target: c.target,
		Format: "text",
	}, &resp)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	got := resp.Data.Translations
	if len(got) != len(q) {
		return nil, fmt.Errorf("%w: expected %d translations, got %d", ErrUpstream, len(q), len(got))
	}
	for j, i := range indexes {
		out[i] = got[j].TranslatedText
	}
	return out, nil
}

// TranslateOne translates a single string. A blank string is returned as-is.
func (c *Client) TranslateOne(ctx context.Context, text string) (string, error) {
	out, err := c.Translate(ctx, []string{text})
	if err != nil {
		return "", err
	}
	return out[0], nil
}
