// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

// CreateUserRequest is the body of POST /create_user.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"notblank,email,max=254"`
	Password string `json:"password" validate:"notblank,max=128"`
	Nickname string `json:"nickname" validate:"notblank,max=50"`
	Avatar   string `json:"avatar" validate:"omitempty,url,max=2048"`
}

// CreateUserResponse is returned with 201.
type CreateUserResponse struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
}

// VerifyTokenRequest is the body of POST /verify_token.
type VerifyTokenRequest struct {
	IDToken string `json:"idToken"`
}

// VerifyTokenResponse is returned with 200.
type VerifyTokenResponse struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
}

// CreatePostRequest is the body of POST /posts.
//
// PlantName is kept only when recognition cannot identify the image.
type CreatePostRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Content     string `json:"content" validate:"max=10000"`
	ImageURL    string `json:"imageUrl" validate:"notblank,max=2048"`
	UserID      string `json:"user_id" validate:"notblank,max=128"`
	PlantName   string `json:"plantName" validate:"max=200"`
	Location    string `json:"location" validate:"max=200"`
	RecipeLink  string `json:"recipeLink" validate:"omitempty,url,max=2048"`
	YoutubeLink string `json:"youtubeLink" validate:"omitempty,url,max=2048"`
	Efficacy    string `json:"efficacy" validate:"max=2000"`
	Precautions string `json:"precautions" validate:"max=2000"`
}

// CreatePostResponse is returned with 201.
type CreatePostResponse struct {
	PostID  string `json:"post_id"`
	Message string `json:"message"`
}

// CreateCommentRequest is the body of POST /posts/{postID}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"notblank,max=2000"`
}

// CreateCommentResponse is returned with 201.
type CreateCommentResponse struct {
	CommentID string `json:"comment_id"`
	Message   string `json:"message"`
}

// LikeResponse reports whether this call created the like.
type LikeResponse struct {
	Liked   bool   `json:"liked"`
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// LikeStatusResponse reports whether the caller has liked a post.
type LikeStatusResponse struct {
	Liked bool `json:"liked"`
}

// AnalyzeRequest is the body of POST /analyze_plant_image.
type AnalyzeRequest struct {
	ImageURL string `json:"imageUrl" validate:"notblank,max=2048"`
}

// FeedQuery holds the validated query parameters of the feed endpoints.
type FeedQuery struct {
	Limit      int    `validate:"min=1"`
	StartAfter string `validate:"max=128"`
}
