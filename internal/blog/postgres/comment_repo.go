// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpress/inkpress/internal/blog"
)

// CommentRepository implements blog.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, post_id, content, author_name, author_email, is_approved, created_at, updated_at`

// Create stores a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *blog.Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, post_id, content, author_name, author_email, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		comment.ID.String(),
		comment.PostID.String(),
		comment.Content,
		comment.AuthorName,
		comment.AuthorEmail,
		comment.Approved,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("COMMENT_DUPLICATE").
				With("id", comment.ID.String()).
				Wrap(blog.ErrDuplicate)
		}
		return oops.Code("COMMENT_CREATE_FAILED").
			With("id", comment.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a comment by id.
func (r *CommentRepository) GetByID(ctx context.Context, id ulid.ULID) (*blog.Comment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE id = $1
	`, id.String())

	comment, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COMMENT_NOT_FOUND").
			With("id", id.String()).
			Wrap(blog.ErrCommentNotFound)
	}
	if err != nil {
		return nil, oops.Code("COMMENT_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return comment, nil
}

// ListByPost returns all comments on a post, newest-first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID ulid.ULID, limit, offset int) ([]*blog.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, postID.String(), limit, offset)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("post_id", postID.String()).
			Wrap(err)
	}
	return collectComments(rows, "COMMENT_LIST_FAILED")
}

// ListApprovedByPost returns approved comments on a post, newest-first.
func (r *CommentRepository) ListApprovedByPost(ctx context.Context, postID ulid.ULID, limit, offset int) ([]*blog.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1 AND is_approved
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, postID.String(), limit, offset)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").
			With("post_id", postID.String()).
			Wrap(err)
	}
	return collectComments(rows, "COMMENT_LIST_FAILED")
}

// Update updates an existing comment.
func (r *CommentRepository) Update(ctx context.Context, comment *blog.Comment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE comments
		SET content = $2, author_name = $3, author_email = $4, is_approved = $5, updated_at = $6
		WHERE id = $1
	`,
		comment.ID.String(),
		comment.Content,
		comment.AuthorName,
		comment.AuthorEmail,
		comment.Approved,
		comment.UpdatedAt,
	)
	if err != nil {
		return oops.Code("COMMENT_UPDATE_FAILED").
			With("id", comment.ID.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("COMMENT_NOT_FOUND").
			With("id", comment.ID.String()).
			Wrap(blog.ErrCommentNotFound)
	}
	return nil
}

// Delete removes a comment. Returns false if it did not exist.
func (r *CommentRepository) Delete(ctx context.Context, id ulid.ULID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id.String())
	if err != nil {
		return false, oops.Code("COMMENT_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByPost removes all comments on a post, returning how many were
// deleted.
func (r *CommentRepository) DeleteByPost(ctx context.Context, postID ulid.ULID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, postID.String())
	if err != nil {
		return 0, oops.Code("COMMENT_DELETE_FAILED").
			With("post_id", postID.String()).
			Wrap(err)
	}
	return tag.RowsAffected(), nil
}

// Exists reports whether a comment with the given id exists.
func (r *CommentRepository) Exists(ctx context.Context, id ulid.ULID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)
	`, id.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("COMMENT_EXISTS_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return exists, nil
}

// CountApprovedByPost returns the number of approved comments on a post.
func (r *CommentRepository) CountApprovedByPost(ctx context.Context, postID ulid.ULID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments WHERE post_id = $1 AND is_approved
	`, postID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("COMMENT_COUNT_FAILED").
			With("post_id", postID.String()).
			Wrap(err)
	}
	return count, nil
}

// CountPending returns the number of comments awaiting moderation.
func (r *CommentRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments WHERE NOT is_approved
	`).Scan(&count)
	if err != nil {
		return 0, oops.Code("COMMENT_COUNT_FAILED").Wrap(err)
	}
	return count, nil
}

// Recent returns the most recently created comments across all posts.
func (r *CommentRepository) Recent(ctx context.Context, limit int) ([]*blog.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("COMMENT_RECENT_FAILED").Wrap(err)
	}
	return collectComments(rows, "COMMENT_RECENT_FAILED")
}

// ListPending returns unapproved comments oldest-first so moderators see
// the longest-waiting ones first.
func (r *CommentRepository) ListPending(ctx context.Context, limit, offset int) ([]*blog.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE NOT is_approved
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, oops.Code("COMMENT_LIST_FAILED").Wrap(err)
	}
	return collectComments(rows, "COMMENT_LIST_FAILED")
}

func collectComments(rows pgx.Rows, code string) ([]*blog.Comment, error) {
	defer rows.Close()

	comments := []*blog.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, oops.Code(code).Wrap(err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code(code).Wrap(err)
	}
	return comments, nil
}

func scanComment(row pgx.Row) (*blog.Comment, error) {
	var (
		comment   blog.Comment
		idStr     string
		postIDStr string
	)
	err := row.Scan(
		&idStr,
		&postIDStr,
		&comment.Content,
		&comment.AuthorName,
		&comment.AuthorEmail,
		&comment.Approved,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("COMMENT_CORRUPT_ID").
			With("id", idStr).
			Wrap(err)
	}
	comment.PostID, err = ulid.Parse(postIDStr)
	if err != nil {
		return nil, oops.Code("COMMENT_CORRUPT_ID").
			With("post_id", postIDStr).
			Wrap(err)
	}
	return &comment, nil
}
