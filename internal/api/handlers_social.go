// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/authz"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/validation"
)

// LikePost handles POST /posts/{postID}/like. Liking twice succeeds without
// changing the counter.
//
// @Summary Like a post
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post id"
// @Success 200 {object} LikeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID}/like [post]
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "postID")
	uid := auth.UserID(ctx)

	if err := h.authorizer.Authorize(ctx, uid, "", authz.ActionLikePost, clientIP(r)); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := h.store.LikePost(ctx, postID, uid)
	if err != nil {
		respondError(w, r, postError(err))
		return
	}

	metrics.RecordLike(created)
	msg := "post liked"
	if !created {
		msg = "post already liked"
	}
	respondJSON(w, http.StatusOK, LikeResponse{Liked: true, Created: created, Message: msg})
}

// LikeStatus handles GET /posts/{postID}/like. Unknown posts report false.
//
// @Summary Report whether the caller has liked a post
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post id"
// @Success 200 {object} LikeStatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /posts/{postID}/like [get]
func (h *Handler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	liked, err := h.store.HasLiked(ctx, chi.URLParam(r, "postID"), auth.UserID(ctx))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, LikeStatusResponse{Liked: liked})
}

// CreateComment handles POST /posts/{postID}/comments.
//
// @Summary Comment on a post
// @Tags Social
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post id"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} CreateCommentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID}/comments [post]
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	ctx := r.Context()
	uid := auth.UserID(ctx)
	if err := h.authorizer.Authorize(ctx, uid, "", authz.ActionCreateComment, clientIP(r)); err != nil {
		respondError(w, r, err)
		return
	}

	comment := &models.Comment{
		PostID:  chi.URLParam(r, "postID"),
		UserID:  uid,
		Content: strings.TrimSpace(req.Content),
	}
	if err := h.store.CreateComment(ctx, comment); err != nil {
		respondError(w, r, postError(err))
		return
	}

	metrics.CommentsCreated.Inc()
	respondJSON(w, http.StatusCreated, CreateCommentResponse{
		CommentID: comment.ID,
		Message:   "comment created",
	})
}

// ListComments handles GET /posts/{postID}/comments.
//
// @Summary List comments on a post, oldest first
// @Tags Social
// @Produce json
// @Param postID path string true "Post id"
// @Success 200 {array} models.Comment
// @Router /posts/{postID}/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.store.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// postError narrows a store not-found to the post-specific message.
func postError(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
