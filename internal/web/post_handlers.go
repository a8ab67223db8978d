// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/inkpress/inkpress/internal/blog"
)

type postView struct {
	ID           ulid.ULID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type postDetailView struct {
	postView
	Comments []commentView `json:"comments"`
}

type postStatsView struct {
	TotalPosts  int64      `json:"total_posts"`
	RecentPosts []postView `json:"recent_posts"`
}

func newPostView(post *blog.Post) postView {
	return postView{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		CommentCount: post.CommentCount(),
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
}

func newPostViews(posts []*blog.Post) []postView {
	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = newPostView(p)
	}
	return views
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// parseID pulls a ULID out of a URL parameter. Malformed ids get a 404
// because no resource can have such an id.
func parseID(w http.ResponseWriter, r *http.Request, param string) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return ulid.ULID{}, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := s.posts.CreatePost(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.PostsCreated.Inc()
	}
	s.logger.InfoContext(r.Context(), "post created", "post_id", post.ID.String())
	writeJSON(w, http.StatusCreated, newPostView(post))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "postID")
	if !ok {
		return
	}

	post, comments, err := s.posts.GetPostWithComments(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, postDetailView{
		postView: newPostView(post),
		Comments: newCommentViews(comments),
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", blog.DefaultListLimit)
	offset := queryInt(r, "offset", 0)

	posts, err := s.posts.ListPosts(r.Context(), limit, offset)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostViews(posts))
}

func (s *Server) handlePostSummaries(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", blog.DefaultListLimit)
	offset := queryInt(r, "offset", 0)

	summaries, err := s.posts.ListPostSummaries(r.Context(), limit, offset)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", blog.DefaultListLimit)

	posts, err := s.posts.SearchPosts(r.Context(), query, limit)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostViews(posts))
}

func (s *Server) handleRecentPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", blog.RecentLimit)

	posts, err := s.posts.RecentPosts(r.Context(), limit)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostViews(posts))
}

func (s *Server) handlePostStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.posts.Stats(r.Context())
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, postStatsView{
		TotalPosts:  stats.TotalPosts,
		RecentPosts: newPostViews(stats.RecentPosts),
	})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "postID")
	if !ok {
		return
	}

	var req updatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := s.posts.UpdatePost(r.Context(), id, req.Title, req.Content)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newPostView(post))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "postID")
	if !ok {
		return
	}

	deleted, err := s.posts.DeletePost(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "post not found"})
		return
	}

	s.logger.InfoContext(r.Context(), "post deleted", "post_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}
