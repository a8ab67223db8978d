// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

// Package postgres implements blog repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpress/inkpress/internal/blog"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostRepository implements blog.PostRepository using PostgreSQL.
type PostRepository struct {
	db DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, title, content, comment_ids, created_at, updated_at`

// Create stores a new post.
func (r *PostRepository) Create(ctx context.Context, post *blog.Post) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO posts (id, title, content, comment_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		post.ID.String(),
		post.Title,
		post.Content,
		ulidStrings(post.CommentIDs),
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("POST_DUPLICATE").
				With("id", post.ID.String()).
				Wrap(blog.ErrDuplicate)
		}
		return oops.Code("POST_CREATE_FAILED").
			With("id", post.ID.String()).
			Wrap(err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// GetByID retrieves a post by id.
func (r *PostRepository) GetByID(ctx context.Context, id ulid.ULID) (*blog.Post, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
	`, id.String())

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("id", id.String()).
			Wrap(blog.ErrPostNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// List returns posts ordered newest-first.
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]*blog.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}
	return collectPosts(rows, "POST_LIST_FAILED")
}

// Update updates an existing post.
func (r *PostRepository) Update(ctx context.Context, post *blog.Post) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, comment_ids = $4, updated_at = $5
		WHERE id = $1
	`,
		post.ID.String(),
		post.Title,
		post.Content,
		ulidStrings(post.CommentIDs),
		post.UpdatedAt,
	)
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").
			With("id", post.ID.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", post.ID.String()).
			Wrap(blog.ErrPostNotFound)
	}
	return nil
}

// Delete removes a post. Returns false if it did not exist.
func (r *PostRepository) Delete(ctx context.Context, id ulid.ULID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id.String())
	if err != nil {
		return false, oops.Code("POST_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether a post with the given id exists.
func (r *PostRepository) Exists(ctx context.Context, id ulid.ULID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)
	`, id.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("POST_EXISTS_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return exists, nil
}

// Count returns the total number of posts.
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, oops.Code("POST_COUNT_FAILED").Wrap(err)
	}
	return count, nil
}

// SearchByTitle returns posts whose title contains the query,
// case-insensitive, newest-first.
func (r *PostRepository) SearchByTitle(ctx context.Context, query string, limit int) ([]*blog.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, oops.Code("POST_SEARCH_FAILED").
			With("query", query).
			Wrap(err)
	}
	return collectPosts(rows, "POST_SEARCH_FAILED")
}

// Recent returns the most recently created posts.
func (r *PostRepository) Recent(ctx context.Context, limit int) ([]*blog.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("POST_RECENT_FAILED").Wrap(err)
	}
	return collectPosts(rows, "POST_RECENT_FAILED")
}

func collectPosts(rows pgx.Rows, code string) ([]*blog.Post, error) {
	defer rows.Close()

	posts := []*blog.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code(code).Wrap(err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code(code).Wrap(err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*blog.Post, error) {
	var (
		post       blog.Post
		idStr      string
		commentIDs []string
	)
	err := row.Scan(
		&idStr,
		&post.Title,
		&post.Content,
		&commentIDs,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("POST_CORRUPT_ID").
			With("id", idStr).
			Wrap(err)
	}

	post.CommentIDs, err = parseULIDs(commentIDs)
	if err != nil {
		return nil, oops.Code("POST_CORRUPT_COMMENT_IDS").
			With("id", idStr).
			Wrap(err)
	}
	return &post, nil
}

func ulidStrings(ids []ulid.ULID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseULIDs(raw []string) ([]ulid.ULID, error) {
	out := make([]ulid.ULID, len(raw))
	for i, s := range raw {
		id, err := ulid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
