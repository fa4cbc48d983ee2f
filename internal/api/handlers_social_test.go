// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/herbfinder/internal/models"
)

func TestLikePost_Idempotent(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)
	seedUser(t, ts, "alice")
	id := createPost(t, ts, "alice", "mint")

	first := ts.do(t, http.MethodPost, "/posts/"+id+"/like", "valid-bob", nil)
	if first.Code != http.StatusOK || !decodeBody[LikeResponse](t, first).Created {
		t.Fatalf("first like status = %d, body = %s", first.Code, first.Body.String())
	}
	second := ts.do(t, http.MethodPost, "/posts/"+id+"/like", "valid-bob", nil)
	if second.Code != http.StatusOK || decodeBody[LikeResponse](t, second).Created {
		t.Fatalf("second like status = %d, body = %s", second.Code, second.Body.String())
	}

	if got := ts.store.post(id).LikesCount; got != 1 {
		t.Errorf("LikesCount = %d, want 1", got)
	}
}

func TestLikePost_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)
	if rec := ts.do(t, http.MethodPost, "/posts/missing/like", "valid-bob", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", rec.Code)
	} else if msg := errorMessage(t, rec); msg != ErrPostNotFound.Message {
		t.Errorf("message = %q", msg)
	}
	if rec := ts.do(t, http.MethodPost, "/posts/any/like", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
}

func TestLikeStatus(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)
	seedUser(t, ts, "alice")
	id := createPost(t, ts, "alice", "mint")

	liked := func(token string) bool {
		t.Helper()
		rec := ts.do(t, http.MethodGet, "/posts/"+id+"/like", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		return decodeBody[LikeStatusResponse](t, rec).Liked
	}

	if liked("valid-bob") {
		t.Error("liked before liking")
	}
	ts.do(t, http.MethodPost, "/posts/"+id+"/like", "valid-bob", nil)
	if !liked("valid-bob") {
		t.Error("not liked after liking")
	}
	if liked("valid-carol") {
		t.Error("like leaked to another user")
	}
	if rec := ts.do(t, http.MethodGet, "/posts/"+id+"/like", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)
	seedUser(t, ts, "alice")
	id := createPost(t, ts, "alice", "mint")

	rec := ts.do(t, http.MethodPost, "/posts/"+id+"/comments", "valid-bob", map[string]string{"content": "  smells great  "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if decodeBody[CreateCommentResponse](t, rec).CommentID == "" {
		t.Error("missing comment id")
	}
	if got := ts.store.post(id).CommentsCount; got != 1 {
		t.Errorf("CommentsCount = %d, want 1", got)
	}

	list := ts.do(t, http.MethodGet, "/posts/"+id+"/comments", "", nil)
	comments := decodeBody[[]models.Comment](t, list)
	if len(comments) != 1 || comments[0].Content != "smells great" || comments[0].UserID != "bob" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestCreateComment_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		post       string
		body       any
		wantStatus int
	}{
		{"empty content", "", map[string]string{"content": ""}, http.StatusBadRequest},
		{"whitespace content", "", map[string]string{"content": " \n "}, http.StatusBadRequest},
		{"too long", "", map[string]string{"content": strings.Repeat("a", 2001)}, http.StatusBadRequest},
		{"missing post", "nope", map[string]string{"content": "hi"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, true)
			seedUser(t, ts, "alice")
			id := createPost(t, ts, "alice", "mint")
			target := id
			if tt.post != "" {
				target = tt.post
			}

			rec := ts.do(t, http.MethodPost, "/posts/"+target+"/comments", "valid-bob", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := ts.store.post(id).CommentsCount; got != 0 {
				t.Errorf("CommentsCount = %d, want 0", got)
			}
		})
	}
}

func TestEndToEnd_RegisterPostFeed(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)

	reg := ts.do(t, http.MethodPost, "/create_user", "", map[string]string{
		"email": "e2e@example.com", "password": "secret123", "nickname": "e2e",
	})
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d", reg.Code)
	}
	uid := decodeBody[CreateUserResponse](t, reg).UID

	createPost(t, ts, uid, "first find")

	feed := ts.do(t, http.MethodGet, "/posts", "", nil)
	posts := decodeBody[[]models.Post](t, feed)
	if len(posts) != 1 {
		t.Fatalf("feed len = %d", len(posts))
	}
	if posts[0].PlantName == "" || posts[0].LikesCount != 0 {
		t.Errorf("post = %+v", posts[0])
	}
	if !strings.Contains(feed.Body.String(), `"likesCount":0`) {
		t.Errorf("feed body missing likesCount: %s", feed.Body.String())
	}
}
