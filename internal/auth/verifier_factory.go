// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/logging"
)

// NewVerifier builds the verifier selected by cfg.AuthMode. The audience is
// the provider project id.
func NewVerifier(cfg config.IdentityConfig) (Verifier, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("auth: project id is required")
	}

	client := &http.Client{Timeout: cfg.Timeout}
	issuer := cfg.Issuer()

	logging.Info().
		Str("mode", mode.String()).
		Str("issuer", issuer).
		Str("jwks_url", cfg.JWKSURL).
		Msg("Token verifier configured")

	switch mode {
	case AuthModeOIDC:
		return NewOIDCVerifier(issuer, cfg.ProjectID, cfg.JWKSURL, client), nil
	default:
		keys := NewJWKSCache(cfg.JWKSURL, client, cfg.JWKSCacheTTL)
		return NewTokenVerifier(issuer, cfg.ProjectID, keys), nil
	}
}
