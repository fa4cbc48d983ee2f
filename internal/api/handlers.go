// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"context"
	"time"

	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/identity"
	"github.com/tomtom215/herbfinder/internal/logging"
	"github.com/tomtom215/herbfinder/internal/models"
)

// Store is the document store used by the handlers. *database.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) error
	UserExists(ctx context.Context, id string) (bool, error)

	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, limit int, startAfter string) (*models.PostPage, error)
	ListUserPosts(ctx context.Context, userID string, limit int, startAfter string) (*models.PostPage, error)

	LikePost(ctx context.Context, postID, userID string) (bool, error)
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
}

// Accounts creates and removes identity provider accounts.
type Accounts interface {
	SignUp(ctx context.Context, email, password string) (*identity.Account, error)
	Delete(ctx context.Context, idToken string) error
}

// Analyzer runs the identification pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, imageRef string) (*models.AnalysisResult, error)
}

// Authorizer decides ownership-scoped actions.
type Authorizer interface {
	Authorize(ctx context.Context, subject, owner, action, clientIP string) error
}

// TokenVerifier resolves a raw id token. *auth.Guard satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.AuthSubject, error)
}

// HandlerDeps are the collaborators of a Handler.
type HandlerDeps struct {
	Store      Store
	Accounts   Accounts
	Analyzer   Analyzer
	Authorizer Authorizer
	Verifier   TokenVerifier
	Feed       config.FeedConfig
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: root and health probes
//   - handlers_users.go: registration and token exchange
//   - handlers_posts.go: post creation, lookup and feeds
//   - handlers_social.go: likes, like status and comments
//   - handlers_analyze.go: identification only
type Handler struct {
	store      Store
	accounts   Accounts
	analyzer   Analyzer
	authorizer Authorizer
	verifier   TokenVerifier
	feed       config.FeedConfig
	security   *logging.SecurityLogger
	startTime  time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	feed := deps.Feed
	if feed.DefaultPageSize <= 0 {
		feed.DefaultPageSize = 10
	}
	if feed.MaxPageSize < feed.DefaultPageSize {
		feed.MaxPageSize = 100
	}
	return &Handler{
		store:      deps.Store,
		accounts:   deps.Accounts,
		analyzer:   deps.Analyzer,
		authorizer: deps.Authorizer,
		verifier:   deps.Verifier,
		feed:       feed,
		security:   logging.NewSecurityLogger(),
		startTime:  time.Now(),
	}
}
