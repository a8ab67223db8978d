// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// PostRepository manages post persistence.
type PostRepository interface {
	// Create stores a new post.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by id. Returns ErrPostNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Post, error)

	// List retrieves posts ordered by creation time descending.
	List(ctx context.Context, limit, offset int) ([]*Post, error)

	// Update persists changes to an existing post.
	Update(ctx context.Context, post *Post) error

	// Delete removes a post. Returns false if it did not exist.
	Delete(ctx context.Context, id ulid.ULID) (bool, error)

	// Exists reports whether a post with the given id exists.
	Exists(ctx context.Context, id ulid.ULID) (bool, error)

	// Count returns the total number of posts.
	Count(ctx context.Context) (int64, error)

	// SearchByTitle retrieves posts whose title contains the query,
	// case-insensitively, newest first.
	SearchByTitle(ctx context.Context, query string, limit int) ([]*Post, error)

	// Recent retrieves the most recently created posts, newest first.
	Recent(ctx context.Context, limit int) ([]*Post, error)
}

// CommentRepository manages comment persistence.
type CommentRepository interface {
	// Create stores a new comment.
	Create(ctx context.Context, comment *Comment) error

	// GetByID retrieves a comment by id. Returns ErrCommentNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Comment, error)

	// ListByPost retrieves all comments for a post, newest first.
	ListByPost(ctx context.Context, postID ulid.ULID, limit, offset int) ([]*Comment, error)

	// ListApprovedByPost retrieves approved comments for a post, newest first.
	ListApprovedByPost(ctx context.Context, postID ulid.ULID, limit, offset int) ([]*Comment, error)

	// Update persists changes to an existing comment.
	Update(ctx context.Context, comment *Comment) error

	// Delete removes a comment. Returns false if it did not exist.
	Delete(ctx context.Context, id ulid.ULID) (bool, error)

	// DeleteByPost removes all comments for a post and returns how many
	// were deleted.
	DeleteByPost(ctx context.Context, postID ulid.ULID) (int64, error)

	// Exists reports whether a comment with the given id exists.
	Exists(ctx context.Context, id ulid.ULID) (bool, error)

	// CountApprovedByPost returns the number of approved comments for a post.
	CountApprovedByPost(ctx context.Context, postID ulid.ULID) (int64, error)

	// CountPending returns the number of comments awaiting approval.
	CountPending(ctx context.Context) (int64, error)

	// Recent retrieves the most recently created comments, newest first.
	Recent(ctx context.Context, limit int) ([]*Comment, error)

	// ListPending retrieves unapproved comments, oldest first.
	ListPending(ctx context.Context, limit, offset int) ([]*Comment, error)
}
