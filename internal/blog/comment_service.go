// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ModerationAction names a batch moderation action.
type ModerationAction string

// Moderation actions.
const (
	ModerationApprove ModerationAction = "approve"
	ModerationReject  ModerationAction = "reject"
)

// CommentStats aggregates comment moderation statistics.
type CommentStats struct {
	PendingCount   int64      `json:"pending_count"`
	RecentComments []*Comment `json:"recent_comments"`
}

// CommentService implements the comment use cases over the repositories.
type CommentService struct {
	comments CommentRepository
	posts    PostRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments CommentRepository, posts PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// CreateComment creates a comment after verifying the owning post exists,
// then appends the comment id to the post's list.
//
// The comment insert and the post update are two independent repository
// calls; the surrounding request transaction is what makes them atomic.
func (s *CommentService) CreateComment(ctx context.Context, postID ulid.ULID, content, authorName, authorEmail string) (*Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, oops.Code("POST_NOT_FOUND").
				With("post_id", postID.String()).
				Wrap(err)
		}
		return nil, oops.Code("COMMENT_CREATE_FAILED").
			With("operation", "get post").
			Wrap(err)
	}

	comment, err := NewComment(postID, content, authorName, authorEmail)
	if err != nil {
		return nil, err
	}

	exists, err := s.comments.Exists(ctx, comment.ID)
	if err != nil {
		return nil, oops.Code("COMMENT_CREATE_FAILED").
			With("operation", "check comment existence").
			Wrap(err)
	}
	if exists {
		return nil, oops.Code("COMMENT_DUPLICATE").
			With("comment_id", comment.ID.String()).
			Wrap(ErrDuplicate)
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, oops.Code("COMMENT_CREATE_FAILED").
			With("operation", "insert comment").
			Wrap(err)
	}

	if err := post.AddCommentID(comment.ID); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, oops.Code("COMMENT_CREATE_FAILED").
			With("operation", "update post comment list").
			With("post_id", postID.String()).
			Wrap(err)
	}

	return comment, nil
}

// GetComment retrieves a comment by id.
func (s *CommentService) GetComment(ctx context.Context, id ulid.ULID) (*Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return nil, oops.Code("COMMENT_NOT_FOUND").
				With("comment_id", id.String()).
				Wrap(err)
		}
		return nil, oops.Code("COMMENT_GET_FAILED").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return comment, nil
}

// CommentsForPost retrieves comments for an existing post, newest first.
// With approvedOnly, unapproved comments are filtered out.
func (s *CommentService) CommentsForPost(ctx context.Context, postID ulid.ULID, approvedOnly bool, limit, offset int) ([]*Comment, error) {
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("operation", "check post existence").
			Wrap(err)
	}
	if !exists {
		return nil, oops.Code("POST_NOT_FOUND").
			With("post_id", postID.String()).
			Wrap(ErrPostNotFound)
	}

	var comments []*Comment
	if approvedOnly {
		comments, err = s.comments.ListApprovedByPost(ctx, postID, limit, offset)
	} else {
		comments, err = s.comments.ListByPost(ctx, postID, limit, offset)
	}
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("post_id", postID.String()).
			Wrap(err)
	}
	return comments, nil
}

// UpdateComment applies the provided fields through the entity mutators.
// Nil means "leave as is".
func (s *CommentService) UpdateComment(ctx context.Context, id ulid.ULID, content, authorName, authorEmail *string) (*Comment, error) {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if content != nil {
		if err := comment.SetContent(*content); err != nil {
			return nil, err
		}
	}
	if authorName != nil || authorEmail != nil {
		if err := comment.SetAuthorInfo(authorName, authorEmail); err != nil {
			return nil, err
		}
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, oops.Code("COMMENT_UPDATE_FAILED").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return comment, nil
}

// ApproveComment marks a comment approved. Idempotent.
func (s *CommentService) ApproveComment(ctx context.Context, id ulid.ULID) (*Comment, error) {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Approve()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, oops.Code("COMMENT_UPDATE_FAILED").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return comment, nil
}

// RejectComment hides a comment from display. Idempotent.
func (s *CommentService) RejectComment(ctx context.Context, id ulid.ULID) (*Comment, error) {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Reject()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, oops.Code("COMMENT_UPDATE_FAILED").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return comment, nil
}

// DeleteComment removes a comment, detaching its id from the owning post
// first. Returns false without error when the comment does not exist. A
// comment id already missing from the post's list is tolerated.
func (s *CommentService) DeleteComment(ctx context.Context, id ulid.ULID) (bool, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return false, nil
		}
		return false, oops.Code("COMMENT_DELETE_FAILED").
			With("operation", "get comment").
			Wrap(err)
	}

	post, err := s.posts.GetByID(ctx, comment.PostID)
	if err == nil {
		if removeErr := post.RemoveCommentID(id); removeErr == nil {
			if err := s.posts.Update(ctx, post); err != nil {
				return false, oops.Code("COMMENT_DELETE_FAILED").
					With("operation", "update post comment list").
					With("post_id", comment.PostID.String()).
					Wrap(err)
			}
		}
	} else if !errors.Is(err, ErrPostNotFound) {
		return false, oops.Code("COMMENT_DELETE_FAILED").
			With("operation", "get post").
			Wrap(err)
	}

	deleted, err := s.comments.Delete(ctx, id)
	if err != nil {
		return false, oops.Code("COMMENT_DELETE_FAILED").
			With("operation", "delete comment").
			With("comment_id", id.String()).
			Wrap(err)
	}
	return deleted, nil
}

// ModerateBatch applies the action to each id in order, failing fast on the
// first id that cannot be moderated. Comments moderated before the failure
// stay moderated; the partial effect is part of the contract.
func (s *CommentService) ModerateBatch(ctx context.Context, ids []ulid.ULID, action ModerationAction) ([]*Comment, error) {
	if action != ModerationApprove && action != ModerationReject {
		return nil, &ValidationError{Field: "action", Message: `must be "approve" or "reject"`}
	}

	moderated := make([]*Comment, 0, len(ids))
	for _, id := range ids {
		var (
			comment *Comment
			err     error
		)
		if action == ModerationApprove {
			comment, err = s.ApproveComment(ctx, id)
		} else {
			comment, err = s.RejectComment(ctx, id)
		}
		if err != nil {
			return moderated, err
		}
		moderated = append(moderated, comment)
	}
	return moderated, nil
}

// RecentComments retrieves the most recently created comments.
func (s *CommentService) RecentComments(ctx context.Context, limit int) ([]*Comment, error) {
	comments, err := s.comments.Recent(ctx, limit)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").Wrap(err)
	}
	return comments, nil
}

// PendingComments retrieves comments awaiting approval, for moderation.
func (s *CommentService) PendingComments(ctx context.Context, limit, offset int) ([]*Comment, error) {
	comments, err := s.comments.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").Wrap(err)
	}
	return comments, nil
}

// Stats returns comment moderation statistics.
func (s *CommentService) Stats(ctx context.Context) (*CommentStats, error) {
	pending, err := s.comments.CountPending(ctx)
	if err != nil {
		return nil, oops.Code("COMMENT_STATS_FAILED").Wrap(err)
	}
	recent, err := s.comments.Recent(ctx, 5)
	if err != nil {
		return nil, oops.Code("COMMENT_STATS_FAILED").Wrap(err)
	}
	return &CommentStats{PendingCount: pending, RecentComments: recent}, nil
}
