// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Default pagination bounds for listing operations.
const (
	DefaultListLimit = 100
	RecentLimit      = 10
)

// PostSummary is the lightweight listing shape: identity, title,
// timestamps, and the approved-comment count.
type PostSummary struct {
	ID           ulid.ULID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CommentCount int64     `json:"comment_count"`
}

// PostStats aggregates post-level statistics.
type PostStats struct {
	TotalPosts  int64   `json:"total_posts"`
	RecentPosts []*Post `json:"recent_posts"`
}

// PostService implements the post use cases over the repositories.
//
// The service issues repository calls as independent operations and relies
// on the caller to own the transaction boundary for an inbound request.
type PostService struct {
	posts    PostRepository
	comments CommentRepository
}

// NewPostService creates a new PostService.
func NewPostService(posts PostRepository, comments CommentRepository) *PostService {
	return &PostService{posts: posts, comments: comments}
}

// CreatePost validates and persists a new post.
// The existence check before insert guards against id-generation collision;
// with ULIDs it is not expected to ever trigger.
func (s *PostService) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	post, err := NewPost(title, content)
	if err != nil {
		return nil, err
	}

	exists, err := s.posts.Exists(ctx, post.ID)
	if err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("operation", "check post existence").
			Wrap(err)
	}
	if exists {
		return nil, oops.Code("POST_DUPLICATE").
			With("post_id", post.ID.String()).
			Wrap(ErrDuplicate)
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("operation", "insert post").
			Wrap(err)
	}
	return post, nil
}

// GetPost retrieves a post by id.
func (s *PostService) GetPost(ctx context.Context, id ulid.ULID) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, oops.Code("POST_NOT_FOUND").
				With("post_id", id.String()).
				Wrap(err)
		}
		return nil, oops.Code("POST_GET_FAILED").
			With("post_id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// GetPostWithComments retrieves a post paired with its approved comments,
// newest first.
func (s *PostService) GetPostWithComments(ctx context.Context, id ulid.ULID) (*Post, []*Comment, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	comments, err := s.comments.ListApprovedByPost(ctx, id, DefaultListLimit, 0)
	if err != nil {
		return nil, nil, oops.Code("POST_GET_FAILED").
			With("operation", "list approved comments").
			With("post_id", id.String()).
			Wrap(err)
	}
	return post, comments, nil
}

// ListPosts retrieves posts with pagination, newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*Post, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}
	return posts, nil
}

// ListPostSummaries retrieves post summaries with per-post approved-comment
// counts. One count query per post; batching is an optimization the listing
// endpoint does not require.
func (s *PostService) ListPostSummaries(ctx context.Context, limit, offset int) ([]PostSummary, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, post := range posts {
		count, err := s.comments.CountApprovedByPost(ctx, post.ID)
		if err != nil {
			return nil, oops.Code("POST_LIST_FAILED").
				With("operation", "count approved comments").
				With("post_id", post.ID.String()).
				Wrap(err)
		}
		summaries = append(summaries, PostSummary{
			ID:           post.ID,
			Title:        post.Title,
			CreatedAt:    post.CreatedAt,
			UpdatedAt:    post.UpdatedAt,
			CommentCount: count,
		})
	}
	return summaries, nil
}

// UpdatePost applies the provided fields through the entity mutators, so
// each field validates independently. Nil means "leave as is".
func (s *PostService) UpdatePost(ctx context.Context, id ulid.ULID, title, content *string) (*Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if err := post.SetTitle(*title); err != nil {
			return nil, err
		}
	}
	if content != nil {
		if err := post.SetContent(*content); err != nil {
			return nil, err
		}
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, oops.Code("POST_UPDATE_FAILED").
			With("post_id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// DeletePost removes a post and all its comments. Returns false without
// error when the post does not exist. Comments are deleted first so no
// orphans remain even without a database-enforced cascade.
func (s *PostService) DeletePost(ctx context.Context, id ulid.ULID) (bool, error) {
	exists, err := s.posts.Exists(ctx, id)
	if err != nil {
		return false, oops.Code("POST_DELETE_FAILED").
			With("operation", "check post existence").
			Wrap(err)
	}
	if !exists {
		return false, nil
	}

	if _, err := s.comments.DeleteByPost(ctx, id); err != nil {
		return false, oops.Code("POST_DELETE_FAILED").
			With("operation", "delete comments").
			With("post_id", id.String()).
			Wrap(err)
	}

	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return false, oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("post_id", id.String()).
			Wrap(err)
	}
	return deleted, nil
}

// SearchPosts retrieves posts whose title matches the query.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit int) ([]*Post, error) {
	posts, err := s.posts.SearchByTitle(ctx, query, limit)
	if err != nil {
		return nil, oops.Code("POST_SEARCH_FAILED").
			With("query", query).
			Wrap(err)
	}
	return posts, nil
}

// RecentPosts retrieves the most recently created posts.
func (s *PostService) RecentPosts(ctx context.Context, limit int) ([]*Post, error) {
	posts, err := s.posts.Recent(ctx, limit)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}
	return posts, nil
}

// Stats returns post statistics for the admin surface.
func (s *PostService) Stats(ctx context.Context) (*PostStats, error) {
	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, oops.Code("POST_STATS_FAILED").Wrap(err)
	}
	recent, err := s.posts.Recent(ctx, 5)
	if err != nil {
		return nil, oops.Code("POST_STATS_FAILED").Wrap(err)
	}
	return &PostStats{TotalPosts: total, RecentPosts: recent}, nil
}
