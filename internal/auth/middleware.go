// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/herbfinder/internal/logging"
)

type contextKey string

// AuthSubjectContextKey is the context key for AuthSubject.
const AuthSubjectContextKey contextKey = "auth_subject"

// Guard is the bearer-token middleware. It never calls the verifier when no
// token is present.
type Guard struct {
	verifier Verifier
	security *logging.SecurityLogger
}

// NewGuard creates a guard backed by verifier.
func NewGuard(verifier Verifier) *Guard {
	return &Guard{
		verifier: verifier,
		security: logging.NewSecurityLogger(),
	}
}

// Verifier returns the underlying verifier.
func (g *Guard) Verifier() Verifier {
	return g.verifier
}

// Verify validates a raw token. Used by the token exchange endpoint.
func (g *Guard) Verify(ctx context.Context, token string) (*AuthSubject, error) {
	if token == "" {
		return nil, ErrNoCredentials
	}
	return g.verifier.Verify(ctx, token)
}

// Require is chi-compatible middleware that rejects unauthenticated
// requests and stores the subject in the request context.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r)
		if token == "" {
			RecordVerification(g.verifier.Name(), "missing")
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized: authentication required")
			return
		}

		subject, err := g.verifier.Verify(r.Context(), token)
		if err != nil {
			g.handleAuthError(w, r, err)
			return
		}

		RecordVerification(g.verifier.Name(), "success")
		ctx := ContextWithSubject(r.Context(), subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleAuthError maps verifier errors to 401 or 503.
func (g *Guard) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	name := g.verifier.Name()

	switch {
	case errors.Is(err, ErrAuthenticatorUnavailable):
		RecordVerification(name, "unavailable")
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token verification unavailable")
		writeAuthError(w, http.StatusServiceUnavailable, "Service unavailable: authentication service unavailable")

	case errors.Is(err, ErrExpiredCredentials):
		RecordVerification(name, "expired")
		g.security.LogTokenRejected(r.RemoteAddr, "expired")
		writeAuthError(w, http.StatusUnauthorized, "Unauthorized: credentials expired")

	default:
		RecordVerification(name, "invalid")
		g.security.LogTokenRejected(r.RemoteAddr, logging.SanitizeError(err.Error()))
		writeAuthError(w, http.StatusUnauthorized, "Unauthorized: invalid credentials")
	}
}

// ExtractBearerToken returns the token from an "Authorization: Bearer"
// header, or "" when absent.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ContextWithSubject stores subject in ctx and tags the logging context
// with its id.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	ctx = context.WithValue(ctx, AuthSubjectContextKey, subject)
	return logging.ContextWithUserID(ctx, subject.ID)
}

// GetAuthSubject returns the subject stored by Require, or nil.
func GetAuthSubject(ctx context.Context) *AuthSubject {
	subject, _ := ctx.Value(AuthSubjectContextKey).(*AuthSubject)
	return subject
}

// UserID returns the authenticated uid, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	if s := GetAuthSubject(ctx); s != nil {
		return s.ID
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
