// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/upstream"
)

var (
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrWeakPassword is returned when the provider rejects the password.
	ErrWeakPassword = errors.New("password does not meet the provider's requirements")

	// ErrInvalidEmail is returned when the provider rejects the email format.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidToken is returned when an id token is expired or unknown.
	ErrInvalidToken = errors.New("invalid id token")
)

// Account is a freshly created provider account.
type Account struct {
	UID     string
	Email   string
	IDToken string
}

// Client talks to the Identity Toolkit accounts REST API.
type Client struct {
	up      *upstream.Client
	baseURL string
	apiKey  string
}

// New creates an accounts client.
func New(cfg config.IdentityConfig, opts ...upstream.Option) *Client {
	return &Client{
		up:      upstream.New("identity", cfg.Timeout, opts...),
		baseURL: strings.TrimRight(cfg.AccountsURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

type signUpRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signUpResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// SignUp creates an email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Account, error) {
	var resp signUpResponse
	err := c.up.PostJSON(ctx, "sign_up", c.endpoint("accounts:signUp"), signUpRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, mapError(err)
	}
	if resp.LocalID == "" {
		return nil, fmt.Errorf("sign up: %w: missing localId", upstream.ErrBadResponse)
	}
	return &Account{UID: resp.LocalID, Email: resp.Email, IDToken: resp.IDToken}, nil
}

type deleteRequest struct {
	IDToken string `json:"idToken"`
}

// Delete removes the account that idToken belongs to.
func (c *Client) Delete(ctx context.Context, idToken string) error {
	if err := c.up.PostJSON(ctx, "delete", c.endpoint("accounts:delete"), deleteRequest{IDToken: idToken}, nil); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) endpoint(method string) string {
	return c.baseURL + "/" + method + "?key=" + url.QueryEscape(c.apiKey)
}

// errorEnvelope is the provider's error body:
// {"error":{"code":400,"message":"EMAIL_EXISTS"}}
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// mapError turns provider error codes into package sentinels. Codes not
// listed here are returned wrapped as-is.
func mapError(err error) error {
	var se *upstream.StatusError
	if !errors.As(err, &se) || se.Retryable() {
		return err
	}

	var env errorEnvelope
	if json.Unmarshal(se.Body, &env) != nil {
		return err
	}
	// Messages may carry a detail suffix, e.g. "WEAK_PASSWORD : Password should be at least 6 characters".
	code, _, _ := strings.Cut(env.Error.Message, " ")

	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailExists
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "INVALID_EMAIL":
		return ErrInvalidEmail
	case "INVALID_ID_TOKEN", "USER_NOT_FOUND", "TOKEN_EXPIRED":
		return ErrInvalidToken
	default:
		return fmt.Errorf("identity provider: %s: %w", code, err)
	}
}
