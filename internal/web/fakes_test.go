// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/blog"
)

// In-memory repositories backing the full stack under httptest.

type fakeUserRepo struct {
	users map[ulid.ULID]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[ulid.ULID]*auth.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, auth.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return auth.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id ulid.ULID) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakePostRepo struct {
	posts []*blog.Post
}

func (r *fakePostRepo) Create(_ context.Context, post *blog.Post) error {
	cp := *post
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id ulid.ULID) (*blog.Post, error) {
	for _, post := range r.posts {
		if post.ID == id {
			cp := *post
			return &cp, nil
		}
	}
	return nil, blog.ErrPostNotFound
}

func (r *fakePostRepo) List(_ context.Context, limit, offset int) ([]*blog.Post, error) {
	return reversed(r.posts, limit, offset), nil
}

func (r *fakePostRepo) Update(_ context.Context, post *blog.Post) error {
	for i, existing := range r.posts {
		if existing.ID == post.ID {
			cp := *post
			r.posts[i] = &cp
			return nil
		}
	}
	return blog.ErrPostNotFound
}

func (r *fakePostRepo) Delete(_ context.Context, id ulid.ULID) (bool, error) {
	for i, post := range r.posts {
		if post.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) Exists(ctx context.Context, id ulid.ULID) (bool, error) {
	_, err := r.GetByID(ctx, id)
	return err == nil, nil
}

func (r *fakePostRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.posts)), nil
}

func (r *fakePostRepo) SearchByTitle(_ context.Context, query string, limit int) ([]*blog.Post, error) {
	var matched []*blog.Post
	for _, post := range r.posts {
		if strings.Contains(strings.ToLower(post.Title), strings.ToLower(query)) {
			matched = append(matched, post)
		}
	}
	return reversed(matched, limit, 0), nil
}

func (r *fakePostRepo) Recent(_ context.Context, limit int) ([]*blog.Post, error) {
	return reversed(r.posts, limit, 0), nil
}

type fakeCommentRepo struct {
	comments []*blog.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *blog.Comment) error {
	cp := *comment
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id ulid.ULID) (*blog.Comment, error) {
	for _, comment := range r.comments {
		if comment.ID == id {
			cp := *comment
			return &cp, nil
		}
	}
	return nil, blog.ErrCommentNotFound
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID ulid.ULID, limit, offset int) ([]*blog.Comment, error) {
	return reversed(r.forPost(postID, false), limit, offset), nil
}

func (r *fakeCommentRepo) ListApprovedByPost(_ context.Context, postID ulid.ULID, limit, offset int) ([]*blog.Comment, error) {
	return reversed(r.forPost(postID, true), limit, offset), nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *blog.Comment) error {
	for i, existing := range r.comments {
		if existing.ID == comment.ID {
			cp := *comment
			r.comments[i] = &cp
			return nil
		}
	}
	return blog.ErrCommentNotFound
}

func (r *fakeCommentRepo) Delete(_ context.Context, id ulid.ULID) (bool, error) {
	for i, comment := range r.comments {
		if comment.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCommentRepo) DeleteByPost(_ context.Context, postID ulid.ULID) (int64, error) {
	var kept []*blog.Comment
	var deleted int64
	for _, comment := range r.comments {
		if comment.PostID == postID {
			deleted++
			continue
		}
		kept = append(kept, comment)
	}
	r.comments = kept
	return deleted, nil
}

func (r *fakeCommentRepo) Exists(ctx context.Context, id ulid.ULID) (bool, error) {
	_, err := r.GetByID(ctx, id)
	return err == nil, nil
}

func (r *fakeCommentRepo) CountApprovedByPost(_ context.Context, postID ulid.ULID) (int64, error) {
	return int64(len(r.forPost(postID, true))), nil
}

func (r *fakeCommentRepo) CountPending(_ context.Context) (int64, error) {
	var pending int64
	for _, comment := range r.comments {
		if !comment.Approved {
			pending++
		}
	}
	return pending, nil
}

func (r *fakeCommentRepo) Recent(_ context.Context, limit int) ([]*blog.Comment, error) {
	return reversed(r.comments, limit, 0), nil
}

func (r *fakeCommentRepo) ListPending(_ context.Context, limit, offset int) ([]*blog.Comment, error) {
	var pending []*blog.Comment
	for _, comment := range r.comments {
		if !comment.Approved {
			pending = append(pending, comment)
		}
	}
	out := make([]*blog.Comment, 0, limit)
	for i := offset; i < len(pending) && len(out) < limit; i++ {
		cp := *pending[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCommentRepo) forPost(postID ulid.ULID, approvedOnly bool) []*blog.Comment {
	var matched []*blog.Comment
	for _, comment := range r.comments {
		if comment.PostID != postID {
			continue
		}
		if approvedOnly && !comment.Approved {
			continue
		}
		matched = append(matched, comment)
	}
	return matched
}

func reversed[T any](items []*T, limit, offset int) []*T {
	out := make([]*T, 0, limit)
	for i := len(items) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *items[i]
		out = append(out, &cp)
	}
	return out
}

// testEnv wires the full API over in-memory repositories.
type testEnv struct {
	server  *Server
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager(auth.TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)
	authService := auth.NewService(newFakeUserRepo(), auth.NewArgon2idHasher(), tokens)

	posts := &fakePostRepo{}
	comments := &fakeCommentRepo{}
	postService := blog.NewPostService(posts, comments)
	commentService := blog.NewCommentService(comments, posts)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer("127.0.0.1:0", authService, postService, commentService, nil, logger)
	return &testEnv{server: server, handler: server.Router()}
}

// request performs a JSON request against the router. A non-empty token
// is sent as a bearer token.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates a user and returns a valid access token.
func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/auth/register", "", registerRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Valid123!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.request(t, http.MethodPost, "/api/auth/login", "", loginRequest{
		Username: "alice",
		Password: "Valid123!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	grant := decodeResponse[auth.TokenGrant](t, rec)
	require.NotEmpty(t, grant.AccessToken)
	return grant.AccessToken
}

// createPost creates a post through the API and returns its view.
func (e *testEnv) createPost(t *testing.T, token, title, content string) postView {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/posts/", token, createPostRequest{
		Title:   title,
		Content: content,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeResponse[postView](t, rec)
}
