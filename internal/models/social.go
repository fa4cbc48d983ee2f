// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package models

import "time"

// User is the profile record. ID is the identity provider's uid.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is immutable after creation except for LikesCount and CommentsCount.
type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	ImageURL    string   `json:"imageUrl"`
	UserID      string   `json:"userId"`
	PlantName   string   `json:"plantName"`
	CommonNames []string `json:"commonNames"`
	Family      string   `json:"family,omitempty"`

	Location    string `json:"location,omitempty"`
	RecipeLink  string `json:"recipeLink,omitempty"`
	YoutubeLink string `json:"youtubeLink,omitempty"`
	Efficacy    string `json:"efficacy,omitempty"`
	Precautions string `json:"precautions,omitempty"`

	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PostPage is one page of a feed. NextCursor is the id of the last post,
// empty when the page is short.
type PostPage struct {
	Posts      []Post `json:"posts"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Comment belongs to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like records that UserID liked PostID. At most one exists per pair.
type Like struct {
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
