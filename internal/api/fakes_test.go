// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/authz"
	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/identity"
	"github.com/tomtom215/herbfinder/internal/models"
)

// memStore is an in-memory Store with the same counter semantics as the
// database package.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	posts    map[string]*models.Post
	likes    map[string]bool
	comments map[string][]models.Comment
	seq      int
	clock    time.Time

	createUserErr error
	pingErr       error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		posts:    map[string]*models.Post{},
		likes:    map[string]bool{},
		comments: map[string][]models.Comment{},
		clock:    time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) Ping(context.Context) error { return s.pingErr }

func (s *memStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createUserErr != nil {
		return s.createUserErr
	}
	if _, ok := s.users[u.ID]; ok {
		return database.ErrAlreadyExists
	}
	u.CreatedAt = s.tick()
	s.users[u.ID] = *u
	return nil
}

func (s *memStore) UserExists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *memStore) CreatePost(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p.ID = fmt.Sprintf("post-%03d", s.seq)
	p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	p.LikesCount, p.CommentsCount = 0, 0
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *memStore) GetPost(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) list(userID string, limit int, startAfter string) *models.PostPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if userID == "" || p.UserID == userID {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if cursor, ok := s.posts[startAfter]; ok {
		idx := 0
		for idx < len(all) && !all[idx].CreatedAt.Before(cursor.CreatedAt) {
			idx++
		}
		all = all[idx:]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	page := &models.PostPage{Posts: all}
	if len(all) == limit {
		page.NextCursor = all[len(all)-1].ID
	}
	return page
}

func (s *memStore) ListPosts(_ context.Context, limit int, startAfter string) (*models.PostPage, error) {
	return s.list("", limit, startAfter), nil
}

func (s *memStore) ListUserPosts(_ context.Context, userID string, limit int, startAfter string) (*models.PostPage, error) {
	return s.list(userID, limit, startAfter), nil
}

func (s *memStore) LikePost(_ context.Context, postID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return false, database.ErrNotFound
	}
	key := postID + "/" + userID
	if s.likes[key] {
		return false, nil
	}
	s.likes[key] = true
	p.LikesCount++
	return true, nil
}

func (s *memStore) HasLiked(_ context.Context, postID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[postID+"/"+userID], nil
}

func (s *memStore) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[c.PostID]
	if !ok {
		return database.ErrNotFound
	}
	s.seq++
	c.ID = fmt.Sprintf("comment-%03d", s.seq)
	c.CreatedAt = s.tick()
	s.comments[c.PostID] = append(s.comments[c.PostID], *c)
	p.CommentsCount++
	return nil
}

func (s *memStore) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Comment{}, s.comments[postID]...)
	return out, nil
}

func (s *memStore) post(id string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.posts[id]
}

type fakeAccounts struct {
	mu        sync.Mutex
	emails    map[string]string
	signUpErr error
	deleted   []string
}

func (a *fakeAccounts) SignUp(_ context.Context, email, password string) (*identity.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.signUpErr != nil {
		return nil, a.signUpErr
	}
	if len(password) < 6 {
		return nil, identity.ErrWeakPassword
	}
	if _, ok := a.emails[email]; ok {
		return nil, identity.ErrEmailExists
	}
	uid := fmt.Sprintf("uid-%d", len(a.emails)+1)
	a.emails[email] = uid
	return &identity.Account{UID: uid, Email: email, IDToken: "token-" + uid}, nil
}

func (a *fakeAccounts) Delete(_ context.Context, idToken string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, idToken)
	return nil
}

type fakeAnalyzer struct {
	mu     sync.Mutex
	calls  int
	result *models.AnalysisResult
	err    error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, _ string) (*models.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	res := *a.result
	return &res, nil
}

// tokenVerifier accepts "valid-<uid>" tokens.
type tokenVerifier struct {
	err error
}

func (v *tokenVerifier) Verify(_ context.Context, token string) (*auth.AuthSubject, error) {
	if v.err != nil {
		return nil, v.err
	}
	uid, ok := strings.CutPrefix(token, "valid-")
	if !ok || uid == "" {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.AuthSubject{ID: uid, AuthMethod: auth.AuthModeJWKS}, nil
}

func (v *tokenVerifier) Name() string { return "test" }

type testServer struct {
	handler  http.Handler
	store    *memStore
	accounts *fakeAccounts
	analyzer *fakeAnalyzer
	verifier *tokenVerifier
}

func newTestServer(t *testing.T, analyzeRequiresAuth bool) *testServer {
	t.Helper()

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	ts := &testServer{
		store:    newMemStore(),
		accounts: &fakeAccounts{emails: map[string]string{}},
		analyzer: &fakeAnalyzer{result: &models.AnalysisResult{
			PlantName:      "Mentha spicata",
			ScientificName: "Mentha spicata",
			CommonNames:    []string{"스피어민트"},
			Family:         "꿀풀과",
		}},
		verifier: &tokenVerifier{},
	}
	guard := auth.NewGuard(ts.verifier)

	h := NewHandler(HandlerDeps{
		Store:      ts.store,
		Accounts:   ts.accounts,
		Analyzer:   ts.analyzer,
		Authorizer: enforcer,
		Verifier:   guard,
		Feed:       config.FeedConfig{DefaultPageSize: 10, MaxPageSize: 50},
	})
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	ts.handler = NewRouter(h, guard, RouterConfig{
		Middleware:          mw,
		AnalyzeRequiresAuth: analyzeRequiresAuth,
		DisableSwagger:      true,
	}).Setup()
	return ts
}

// do sends a request. token "" omits the Authorization header.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[ErrorResponse](t, rec).Error
}
