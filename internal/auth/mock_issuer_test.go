// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testProject = "herbfinder-test"
	testKeyID   = "test-key-1"
)

// mockIssuer serves a JWKS document and signs ID tokens with its key.
type mockIssuer struct {
	server     *httptest.Server
	key        *rsa.PrivateKey
	keyID      string
	issuer     string
	jwksHits   atomic.Int32
	failStatus atomic.Int32

	// While holding is set, each JWKS request signals fetching and waits
	// for release to be closed.
	holding  atomic.Bool
	fetching chan struct{}
	release  chan struct{}
}

func newMockIssuer(t *testing.T) *mockIssuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate RSA key: %v", err)
	}

	m := &mockIssuer{
		key:      key,
		keyID:    testKeyID,
		issuer:   "https://securetoken.google.com/" + testProject,
		fetching: make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handleJWKS))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockIssuer) jwksURL() string {
	return m.server.URL + "/jwks"
}

func (m *mockIssuer) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	m.jwksHits.Add(1)
	if m.holding.Load() {
		m.fetching <- struct{}{}
		<-m.release
	}
	if status := m.failStatus.Load(); status != 0 {
		w.WriteHeader(int(status))
		return
	}

	pub := m.key.PublicKey
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": m.keyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

// tokenOpts overrides individual claims of a signed test token.
type tokenOpts struct {
	subject  string
	issuer   string
	audience string
	expires  time.Time
	keyID    string
}

func (m *mockIssuer) sign(t *testing.T, opts tokenOpts) string {
	t.Helper()

	now := time.Now()
	if opts.subject == "" {
		opts.subject = "firebase-uid-123"
	}
	if opts.issuer == "" {
		opts.issuer = m.issuer
	}
	if opts.audience == "" {
		opts.audience = testProject
	}
	if opts.expires.IsZero() {
		opts.expires = now.Add(time.Hour)
	}
	if opts.keyID == "" {
		opts.keyID = m.keyID
	}

	claims := jwt.MapClaims{
		"iss":            opts.issuer,
		"aud":            opts.audience,
		"sub":            opts.subject,
		"iat":            now.Add(-time.Minute).Unix(),
		"exp":            opts.expires.Unix(),
		"auth_time":      now.Add(-time.Minute).Unix(),
		"email":          "gardener@example.com",
		"email_verified": true,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = opts.keyID

	signed, err := token.SignedString(m.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
