// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"context"
	"errors"
	"time"
)

// AuthMode selects the token verification strategy.
type AuthMode string

const (
	// AuthModeJWKS verifies tokens with golang-jwt against a cached JWKS.
	AuthModeJWKS AuthMode = "jwks"

	// AuthModeOIDC verifies tokens with the zitadel OIDC relying-party verifier.
	AuthModeOIDC AuthMode = "oidc"
)

// ParseAuthMode converts a string to AuthMode. Empty selects jwks.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "", string(AuthModeJWKS):
		return AuthModeJWKS, nil
	case string(AuthModeOIDC):
		return AuthModeOIDC, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// String returns the string representation of AuthMode.
func (m AuthMode) String() string {
	return string(m)
}

// Standard authentication errors
var (
	// ErrNoCredentials indicates no bearer token was provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates a malformed token or a bad signature or claim.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates the token has expired.
	ErrExpiredCredentials = errors.New("credentials expired")

	// ErrAuthenticatorUnavailable indicates verification itself failed,
	// for example because the key set could not be fetched.
	ErrAuthenticatorUnavailable = errors.New("authenticator unavailable")
)

// Verifier resolves an ID token to a subject.
type Verifier interface {
	// Verify validates token and returns its subject. Errors wrap one of
	// the package sentinels.
	Verify(ctx context.Context, token string) (*AuthSubject, error)

	// Name returns the verifier's name for logging.
	Name() string
}

// AuthSubject is the authenticated caller.
type AuthSubject struct {
	// ID is the provider uid (the token's sub claim).
	ID string `json:"id"`

	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`

	// Issuer is the token's iss claim.
	Issuer string `json:"issuer,omitempty"`

	// AuthMethod records which verifier accepted the token.
	AuthMethod AuthMode `json:"auth_method"`

	IssuedAt  int64 `json:"issued_at,omitempty"`
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// IsExpired checks if the token behind the subject has expired.
func (s *AuthSubject) IsExpired() bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return time.Now().Unix() > s.ExpiresAt
}
