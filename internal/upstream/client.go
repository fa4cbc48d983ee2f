// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/herbfinder/internal/logging"
	"github.com/tomtom215/herbfinder/internal/metrics"
)

const (
	maxResponseBytes = 4 << 20
	maxErrorBodySize = 512
)

// Client performs JSON calls against one external service with a per-call
// timeout, an optional outbound rate limit and a circuit breaker.
//
//	c := upstream.New("plantnet", 30*time.Second, upstream.WithRateLimit(2, 4))
//	var out identifyResponse
//	err := c.GetJSON(ctx, "identify", reqURL, &out)
type Client struct {
	service string
	timeout time.Duration
	http    *http.Client
	breaker *Breaker
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit bounds outbound calls to perSecond with the given burst.
// perSecond <= 0 leaves the client unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBreakerSettings overrides the circuit breaker tuning.
func WithBreakerSettings(s BreakerSettings) Option {
	return func(c *Client) { c.breaker = NewBreaker(c.service, s) }
}

// New creates a client for service. timeout bounds each call including
// rate-limit waits.
func New(service string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		service: service,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = NewBreaker(service, BreakerSettings{})
	}
	return c
}

// Service returns the service name used in logs and metrics.
func (c *Client) Service() string { return c.service }

// Breaker exposes the client's circuit breaker.
func (c *Client) Breaker() *Breaker { return c.breaker }

// GetJSON issues a GET and decodes a 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, operation, url string, out any) error {
	return c.do(ctx, operation, http.MethodGet, url, nil, out)
}

// PostJSON encodes in as the request body and decodes a 2xx body into out.
// out may be nil when the response body is not needed.
func (c *Client) PostJSON(ctx context.Context, operation, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s %s: encode request: %w", c.service, operation, err)
	}
	return c.do(ctx, operation, http.MethodPost, url, body, out)
}

func (c *Client) do(ctx context.Context, operation, method, url string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	start := time.Now()

	_, err := Execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, url, body, out)
	})

	metrics.RecordUpstreamCall(c.service, operation, time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Str("service", c.service).
			Str("operation", operation).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("Upstream call failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &unavailableError{service: c.service, err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &unavailableError{service: c.service, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: snippet}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %w", c.service, ErrBadResponse, err)
	}
	return nil
}
