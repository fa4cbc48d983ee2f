// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/herbfinder/internal/identity"
	"github.com/tomtom215/herbfinder/internal/logging"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/validation"
)

// CreateUser handles POST /create_user.
//
// The provider account is created first. When the profile write fails the
// account is deleted again on a best-effort basis.
//
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Registration"
// @Success 201 {object} CreateUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /create_user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	ctx := r.Context()
	ip := clientIP(r)

	account, err := h.accounts.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		metrics.Registrations.WithLabelValues(registrationOutcome(err)).Inc()
		h.security.LogRegistration("", req.Email, ip, err)
		respondError(w, r, err)
		return
	}

	user := &models.User{
		ID:       account.UID,
		Email:    req.Email,
		Nickname: strings.TrimSpace(req.Nickname),
		Avatar:   req.Avatar,
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		h.rollbackAccount(ctx, account)
		metrics.Registrations.WithLabelValues("rolled_back").Inc()
		h.security.LogRegistration(account.UID, req.Email, ip, err)
		respondError(w, r, err)
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	h.security.LogRegistration(account.UID, req.Email, ip, nil)
	respondJSON(w, http.StatusCreated, CreateUserResponse{
		UID:     account.UID,
		Message: "user created",
	})
}

// rollbackAccount deletes a provider account whose profile could not be
// written. It runs detached from the request so a client disconnect does
// not abandon it.
func (h *Handler) rollbackAccount(ctx context.Context, account *identity.Account) {
	err := h.accounts.Delete(context.WithoutCancel(ctx), account.IDToken)
	h.security.LogAccountRollback(account.UID, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("uid", logging.SanitizeUserID(account.UID)).
			Msg("Account rollback failed; orphaned provider account")
	}
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, identity.ErrEmailExists):
		return "duplicate_email"
	case errors.Is(err, identity.ErrWeakPassword):
		return "weak_password"
	default:
		return "error"
	}
}

// VerifyToken handles POST /verify_token.
//
// @Summary Exchange an id token for its uid
// @Tags Users
// @Accept json
// @Produce json
// @Param request body VerifyTokenRequest true "Token"
// @Success 200 {object} VerifyTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /verify_token [post]
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	token := strings.TrimSpace(req.IDToken)
	if token == "" {
		respondError(w, r, ErrTokenRequired)
		return
	}

	subject, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		h.security.LogTokenRejected(clientIP(r), logging.SanitizeError(err.Error()))
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, VerifyTokenResponse{
		UID:     subject.ID,
		Message: "token verified",
	})
}
