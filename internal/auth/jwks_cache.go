// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/herbfinder/internal/logging"
)

// minRefreshInterval bounds how often an unknown kid can force a refetch.
const minRefreshInterval = 10 * time.Second

// JWKSCache caches RSA signing keys from a JWKS endpoint. It is safe for
// concurrent use.
type JWKSCache struct {
	uri        string
	httpClient *http.Client
	ttl        time.Duration

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time

	group singleflight.Group
}

// NewJWKSCache creates a new JWKS cache. ttl 0 defaults to one hour.
func NewJWKSCache(uri string, client *http.Client, ttl time.Duration) *JWKSCache {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWKSCache{
		uri:        uri,
		httpClient: client,
		ttl:        ttl,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// GetKey returns the key for kid, refreshing when the cache is stale or the
// kid is unknown. Fetch failures wrap ErrAuthenticatorUnavailable; a kid
// that is still unknown after a refresh wraps ErrInvalidCredentials.
func (c *JWKSCache) GetKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	age := time.Since(c.fetched)
	c.mu.RUnlock()

	if ok && age < c.ttl {
		return key, nil
	}
	if !ok && age < minRefreshInterval {
		return nil, fmt.Errorf("%w: unknown key id %q", ErrInvalidCredentials, kid)
	}

	keys, err := c.refresh(ctx, !ok)
	if err != nil {
		if ok {
			logging.Warn().Err(err).Msg("JWKS refresh failed, using cached key")
			return key, nil
		}
		return nil, err
	}

	key, ok = keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key id %q", ErrInvalidCredentials, kid)
	}
	return key, nil
}

// refresh fetches the key set. force skips the freshness check so that a
// rotated key can be picked up before the TTL expires. Concurrent refreshes
// share one fetch, and the lock is held only to swap the key map, so
// lookups of cached keys never wait on the network.
func (c *JWKSCache) refresh(ctx context.Context, force bool) (map[string]*rsa.PublicKey, error) {
	ch := c.group.DoChan("jwks", func() (any, error) {
		c.mu.RLock()
		keys, age := c.keys, time.Since(c.fetched)
		c.mu.RUnlock()

		// Another refresh may have finished while this one was queued.
		if len(keys) > 0 && (age < minRefreshInterval || (!force && age < c.ttl)) {
			return keys, nil
		}

		start := time.Now()
		keys, err := c.fetch(context.WithoutCancel(ctx))
		RecordJWKSFetch(time.Since(start), err)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.keys = keys
		c.fetched = time.Now()
		c.mu.Unlock()
		logging.Debug().Int("keys", len(keys)).Str("uri", c.uri).Msg("JWKS refreshed")
		return keys, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrAuthenticatorUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]*rsa.PublicKey), nil
	}
}

func (c *JWKSCache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticatorUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch JWKS: %w", ErrAuthenticatorUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: JWKS fetch failed with status %d", ErrAuthenticatorUnavailable, resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("%w: decode JWKS: %w", ErrAuthenticatorUnavailable, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(trimPadding(k.N))
		if err != nil {
			continue
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(trimPadding(k.E))
		if err != nil {
			continue
		}
		e := 0
		for _, b := range eBytes {
			e = e<<8 + int(b)
		}
		keys[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}
	}
	return keys, nil
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}

// URI returns the JWKS endpoint URI.
func (c *JWKSCache) URI() string {
	return c.uri
}
