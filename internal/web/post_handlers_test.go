// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package web

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/blog"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	post := env.createPost(t, token, "Hello", "first post")
	assert.NotEqual(t, ulid.ULID{}, post.ID)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, 0, post.CommentCount)

	t.Run("requires auth", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/posts/", "", createPostRequest{
			Title:   "Hello",
			Content: "content",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank title", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/posts/", token, createPostRequest{
			Title:   "  ",
			Content: "content",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeResponse[errorResponse](t, rec)
		assert.Contains(t, resp.Error, "title")
	})
}

func TestGetPost(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	post := env.createPost(t, token, "Hello", "first post")

	rec := env.request(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/comments", "", createCommentRequest{
		Content:    "nice post",
		AuthorName: "bob",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodGet, "/api/posts/"+post.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decodeResponse[postDetailView](t, rec)
	assert.Equal(t, post.ID, detail.ID)
	assert.Equal(t, 1, detail.CommentCount)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "nice post", detail.Comments[0].Content)

	t.Run("unknown id", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts/"+ulid.Make().String(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts/not-a-ulid", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	titles := make([]string, 0, 3)
	for i := range 3 {
		title := fmt.Sprintf("Post %d", i)
		env.createPost(t, token, title, "content")
		titles = append(titles, title)
	}

	rec := env.request(t, http.MethodGet, "/api/posts/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	posts := decodeResponse[[]postView](t, rec)
	require.Len(t, posts, 3)
	assert.Equal(t, titles[2], posts[0].Title, "newest first")

	t.Run("pagination", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts/?limit=1&offset=1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		posts := decodeResponse[[]postView](t, rec)
		require.Len(t, posts, 1)
		assert.Equal(t, titles[1], posts[0].Title)
	})
}

func TestPostSummaries(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	post := env.createPost(t, token, "Hello", "content")

	rec := env.request(t, http.MethodPost, "/api/posts/"+post.ID.String()+"/comments", "", createCommentRequest{
		Content: "nice post",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/posts/summaries", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summaries := decodeResponse[[]blog.PostSummary](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Hello", summaries[0].Title)
	assert.Equal(t, int64(1), summaries[0].CommentCount)
}

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	env.createPost(t, token, "Go concurrency patterns", "content")
	env.createPost(t, token, "Cooking with cast iron", "content")

	rec := env.request(t, http.MethodGet, "/api/posts/search?q=go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	posts := decodeResponse[[]postView](t, rec)
	require.Len(t, posts, 1)
	assert.Equal(t, "Go concurrency patterns", posts[0].Title)
}

func TestPostStats(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	for i := range 7 {
		env.createPost(t, token, fmt.Sprintf("Post %d", i), "content")
	}

	rec := env.request(t, http.MethodGet, "/api/posts/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeResponse[postStatsView](t, rec)
	assert.Equal(t, int64(7), stats.TotalPosts)
	assert.Len(t, stats.RecentPosts, 5)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	post := env.createPost(t, token, "Hello", "content")

	title := "Updated"
	rec := env.request(t, http.MethodPatch, "/api/posts/"+post.ID.String(), token, updatePostRequest{
		Title: &title,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeResponse[postView](t, rec)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, "content", updated.Content, "omitted field untouched")

	t.Run("requires auth", func(t *testing.T) {
		rec := env.request(t, http.MethodPatch, "/api/posts/"+post.ID.String(), "", updatePostRequest{
			Title: &title,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := env.request(t, http.MethodPatch, "/api/posts/"+ulid.Make().String(), token, updatePostRequest{
			Title: &title,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	post := env.createPost(t, token, "Hello", "content")

	rec := env.request(t, http.MethodDelete, "/api/posts/"+post.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.request(t, http.MethodDelete, "/api/posts/"+post.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "repeat delete")

	rec = env.request(t, http.MethodGet, "/api/posts/"+post.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
