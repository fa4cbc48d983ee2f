// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultLeeway absorbs clock skew between us and the token issuer.
const defaultLeeway = 30 * time.Second

// idTokenClaims are the claims carried by provider ID tokens.
type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	AuthTime      int64  `json:"auth_time,omitempty"`
}

// TokenVerifier validates RS256 ID tokens against a JWKS endpoint. The
// issuer and audience must match exactly and sub must be non-empty.
type TokenVerifier struct {
	issuer   string
	audience string
	keys     *JWKSCache
	leeway   time.Duration
}

// NewTokenVerifier creates a verifier. audience is the provider project id.
func NewTokenVerifier(issuer, audience string, keys *JWKSCache) *TokenVerifier {
	return &TokenVerifier{
		issuer:   issuer,
		audience: audience,
		keys:     keys,
		leeway:   defaultLeeway,
	}
}

// Name returns the verifier name.
func (v *TokenVerifier) Name() string {
	return string(AuthModeJWKS)
}

// Verify parses and validates token.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (*AuthSubject, error) {
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims := &idTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("%w: token missing kid header", ErrInvalidCredentials)
		}
		return v.keys.GetKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}

	subject := &AuthSubject{
		ID:            claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Issuer:        claims.Issuer,
		AuthMethod:    AuthModeJWKS,
	}
	if claims.IssuedAt != nil {
		subject.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return subject, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, ErrAuthenticatorUnavailable):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredCredentials
	case errors.Is(err, ErrInvalidCredentials):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
}
