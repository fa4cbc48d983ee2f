// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/authz"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/models"
	"github.com/tomtom215/herbfinder/internal/validation"
)

// NextCursorHeader carries the id to pass as startAfter for the next page.
const NextCursorHeader = "X-Next-Cursor"

// CreatePost handles POST /posts.
//
// @Summary Create a post and identify its image
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} CreatePostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /posts [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, verr)
		return
	}

	ctx := r.Context()
	if err := h.authorizer.Authorize(ctx, auth.UserID(ctx), req.UserID, authz.ActionCreatePost, clientIP(r)); err != nil {
		respondError(w, r, err)
		return
	}

	exists, err := h.store.UserExists(ctx, req.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !exists {
		respondError(w, r, ErrUserNotFound)
		return
	}

	result, err := h.analyzer.Analyze(ctx, req.ImageURL)
	if err != nil {
		respondError(w, r, err)
		return
	}

	plantName := result.PlantName
	if plantName == models.Unidentified && strings.TrimSpace(req.PlantName) != "" {
		plantName = strings.TrimSpace(req.PlantName)
	}

	post := &models.Post{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		UserID:      req.UserID,
		PlantName:   plantName,
		CommonNames: result.CommonNames,
		Family:      result.Family,
		Location:    req.Location,
		RecipeLink:  req.RecipeLink,
		YoutubeLink: req.YoutubeLink,
		Efficacy:    req.Efficacy,
		Precautions: req.Precautions,
	}
	if err := h.store.CreatePost(ctx, post); err != nil {
		respondError(w, r, err)
		return
	}

	metrics.PostsCreated.Inc()
	respondJSON(w, http.StatusCreated, CreatePostResponse{
		PostID:  post.ID,
		Message: "post created",
	})
}

// ListPosts handles GET /posts.
//
// @Summary List posts, newest first
// @Tags Posts
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param startAfter query string false "Id of the last post of the previous page"
// @Success 200 {array} models.Post
// @Header 200 {string} X-Next-Cursor "startAfter for the next page"
// @Failure 400 {object} ErrorResponse
// @Router /posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q, err := h.feedQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := h.store.ListPosts(r.Context(), q.Limit, q.StartAfter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, page)
}

// GetPost handles GET /posts/{postID}.
//
// @Summary Get a post
// @Tags Posts
// @Produce json
// @Param postID path string true "Post id"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse
// @Router /posts/{postID} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		respondError(w, r, postError(err))
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// ListUserPosts handles GET /users/{userID}/posts.
//
// @Summary List one user's posts, newest first
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User id"
// @Param limit query int false "Page size" default(10)
// @Param startAfter query string false "Id of the last post of the previous page"
// @Success 200 {array} models.Post
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/{userID}/posts [get]
func (h *Handler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := chi.URLParam(r, "userID")
	if err := h.authorizer.Authorize(ctx, auth.UserID(ctx), owner, authz.ActionReadUserPosts, clientIP(r)); err != nil {
		respondError(w, r, err)
		return
	}

	q, err := h.feedQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := h.store.ListUserPosts(ctx, owner, q.Limit, q.StartAfter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPage(w, page)
}

// feedQuery parses limit and startAfter. limit defaults to the configured
// page size and is clamped to the maximum.
func (h *Handler) feedQuery(r *http.Request) (*FeedQuery, error) {
	q := &FeedQuery{
		Limit:      h.feed.DefaultPageSize,
		StartAfter: strings.TrimSpace(r.URL.Query().Get("startAfter")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, ErrInvalidLimit
		}
		q.Limit = n
	}
	if q.Limit > h.feed.MaxPageSize {
		q.Limit = h.feed.MaxPageSize
	}
	if verr := validation.ValidateStruct(q); verr != nil {
		return nil, verr
	}
	return q, nil
}

func respondPage(w http.ResponseWriter, page *models.PostPage) {
	posts := page.Posts
	if posts == nil {
		posts = []models.Post{}
	}
	if page.NextCursor != "" {
		w.Header().Set(NextCursorHeader, page.NextCursor)
	}
	respondJSON(w, http.StatusOK, posts)
}
