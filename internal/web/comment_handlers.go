// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package web

import (
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkpress/inkpress/internal/blog"
)

type commentView struct {
	ID          ulid.ULID `json:"id"`
	PostID      ulid.ULID `json:"post_id"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Approved    bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type commentStatsView struct {
	PendingCount   int64         `json:"pending_count"`
	RecentComments []commentView `json:"recent_comments"`
}

func newCommentView(comment *blog.Comment) commentView {
	return commentView{
		ID:          comment.ID,
		PostID:      comment.PostID,
		Content:     comment.Content,
		AuthorName:  comment.AuthorName,
		AuthorEmail: comment.AuthorEmail,
		Approved:    comment.Approved,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}

func newCommentViews(comments []*blog.Comment) []commentView {
	views := make([]commentView, len(comments))
	for i, c := range comments {
		views[i] = newCommentView(c)
	}
	return views
}

type createCommentRequest struct {
	Content     string `json:"content"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

type updateCommentRequest struct {
	Content     *string `json:"content,omitempty"`
	AuthorName  *string `json:"author_name,omitempty"`
	AuthorEmail *string `json:"author_email,omitempty"`
}

type moderateBatchRequest struct {
	Action     string   `json:"action"`
	CommentIDs []string `json:"comment_ids"`
}

type moderateBatchResponse struct {
	Moderated []commentView `json:"moderated"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseID(w, r, "postID")
	if !ok {
		return
	}

	var req createCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := s.comments.CreateComment(r.Context(), postID, req.Content, req.AuthorName, req.AuthorEmail)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.CommentsCreated.Inc()
	}
	s.logger.InfoContext(r.Context(), "comment created",
		"comment_id", comment.ID.String(), "post_id", postID.String())
	writeJSON(w, http.StatusCreated, newCommentView(comment))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseID(w, r, "postID")
	if !ok {
		return
	}

	approvedOnly := r.URL.Query().Get("approved_only") != "false"
	limit := queryInt(r, "limit", blog.DefaultListLimit)
	offset := queryInt(r, "offset", 0)

	comments, err := s.comments.CommentsForPost(r.Context(), postID, approvedOnly, limit, offset)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentViews(comments))
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "commentID")
	if !ok {
		return
	}

	comment, err := s.comments.GetComment(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentView(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "commentID")
	if !ok {
		return
	}

	var req updateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := s.comments.UpdateComment(r.Context(), id, req.Content, req.AuthorName, req.AuthorEmail)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentView(comment))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "commentID")
	if !ok {
		return
	}

	deleted, err := s.comments.DeleteComment(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "comment not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApproveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "commentID")
	if !ok {
		return
	}

	comment, err := s.comments.ApproveComment(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentView(comment))
}

func (s *Server) handleRejectComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "commentID")
	if !ok {
		return
	}

	comment, err := s.comments.RejectComment(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentView(comment))
}

// handleModerateBatch applies an action to several comments. Processing
// is sequential and stops at the first failure; comments already
// moderated stay moderated and are reported in the response of a
// subsequent successful call.
func (s *Server) handleModerateBatch(w http.ResponseWriter, r *http.Request) {
	var req moderateBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ids := make([]ulid.ULID, 0, len(req.CommentIDs))
	for _, raw := range req.CommentIDs {
		id, err := ulid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid comment id: " + raw})
			return
		}
		ids = append(ids, id)
	}

	moderated, err := s.comments.ModerateBatch(r.Context(), ids, blog.ModerationAction(req.Action))
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, moderateBatchResponse{Moderated: newCommentViews(moderated)})
}

func (s *Server) handleRecentComments(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", blog.RecentLimit)

	comments, err := s.comments.RecentComments(r.Context(), limit)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentViews(comments))
}

func (s *Server) handlePendingComments(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", blog.DefaultListLimit)
	offset := queryInt(r, "offset", 0)

	comments, err := s.comments.PendingComments(r.Context(), limit, offset)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCommentViews(comments))
}

func (s *Server) handleCommentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.comments.Stats(r.Context())
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, commentStatsView{
		PendingCount:   stats.PendingCount,
		RecentComments: newCommentViews(stats.RecentComments),
	})
}
