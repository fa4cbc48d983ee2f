// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"

	"github.com/tomtom215/herbfinder/internal/logging"
)

// OIDCVerifier validates ID tokens with zitadel's relying-party verifier.
// Signature, issuer, audience, expiry and algorithm checks are done by the
// library.
type OIDCVerifier struct {
	verifier *rp.IDTokenVerifier
	issuer   string
}

// NewOIDCVerifier creates a verifier that fetches signing keys from jwksURL.
// clientID is the expected audience.
func NewOIDCVerifier(issuer, clientID, jwksURL string, client *http.Client) *OIDCVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	keySet := rp.NewRemoteKeySet(client, jwksURL)
	return &OIDCVerifier{
		verifier: rp.NewIDTokenVerifier(issuer, clientID, keySet,
			rp.WithSupportedSigningAlgorithms("RS256"),
			rp.WithIssuedAtOffset(defaultLeeway),
		),
		issuer: issuer,
	}
}

// Name returns the verifier name.
func (v *OIDCVerifier) Name() string {
	return string(AuthModeOIDC)
}

// Verify validates token and returns its subject.
func (v *OIDCVerifier) Verify(ctx context.Context, token string) (*AuthSubject, error) {
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, token, v.verifier)
	if err != nil {
		return nil, mapVerificationError(err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}

	return &AuthSubject{
		ID:            claims.Subject,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Issuer:        claims.Issuer,
		AuthMethod:    AuthModeOIDC,
		IssuedAt:      claims.IssuedAt.AsTime().Unix(),
		ExpiresAt:     claims.Expiration.AsTime().Unix(),
	}, nil
}

// Issuer returns the expected token issuer.
func (v *OIDCVerifier) Issuer() string {
	return v.issuer
}

// mapVerificationError separates key-set transport failures from credential
// failures.
func mapVerificationError(err error) error {
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr), errors.As(err, &netErr):
		logging.Warn().Err(err).Msg("OIDC key set unavailable")
		return fmt.Errorf("%w: %w", ErrAuthenticatorUnavailable, err)
	case errors.Is(err, oidc.ErrExpired):
		return ErrExpiredCredentials
	default:
		logging.Debug().Err(err).Msg("OIDC token verification failed")
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
}
