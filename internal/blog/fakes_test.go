// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

// fakePostRepo is an in-memory PostRepository. Posts are held in insertion
// order, which matches creation order, so "newest first" is a reverse walk.
type fakePostRepo struct {
	posts []*Post
}

func (r *fakePostRepo) Create(_ context.Context, post *Post) error {
	cp := *post
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id ulid.ULID) (*Post, error) {
	for _, post := range r.posts {
		if post.ID == id {
			cp := *post
			return &cp, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *fakePostRepo) List(_ context.Context, limit, offset int) ([]*Post, error) {
	return paginateReverse(r.posts, limit, offset), nil
}

func (r *fakePostRepo) Update(_ context.Context, post *Post) error {
	for i, existing := range r.posts {
		if existing.ID == post.ID {
			cp := *post
			r.posts[i] = &cp
			return nil
		}
	}
	return ErrPostNotFound
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

func (r *fakePostRepo) SearchByTitle(_ context.Context, query string, limit int) ([]*Post, error) {
	var matched []*Post
	for _, post := range r.posts {
		if strings.Contains(strings.ToLower(post.Title), strings.ToLower(query)) {
			matched = append(matched, post)
		}
	}
	return paginateReverse(matched, limit, 0), nil
}

func (r *fakePostRepo) Recent(_ context.Context, limit int) ([]*Post, error) {
	return paginateReverse(r.posts, limit, 0), nil
}

// fakeCommentRepo is an in-memory CommentRepository with the same ordering
// conventions as fakePostRepo.
type fakeCommentRepo struct {
	comments []*Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *Comment) error {
	cp := *comment
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id ulid.ULID) (*Comment, error) {
	for _, comment := range r.comments {
		if comment.ID == id {
			cp := *comment
			return &cp, nil
		}
	}
	return nil, ErrCommentNotFound
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID ulid.ULID, limit, offset int) ([]*Comment, error) {
	return paginateReverse(r.forPost(postID, false), limit, offset), nil
}

func (r *fakeCommentRepo) ListApprovedByPost(_ context.Context, postID ulid.ULID, limit, offset int) ([]*Comment, error) {
	return paginateReverse(r.forPost(postID, true), limit, offset), nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *Comment) error {
	for i, existing := range r.comments {
		if existing.ID == comment.ID {
			cp := *comment
			r.comments[i] = &cp
			return nil
		}
	}
	return ErrCommentNotFound
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
	var kept []*Comment
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

func (r *fakeCommentRepo) Recent(_ context.Context, limit int) ([]*Comment, error) {
	return paginateReverse(r.comments, limit, 0), nil
}

func (r *fakeCommentRepo) ListPending(_ context.Context, limit, offset int) ([]*Comment, error) {
	var pending []*Comment
	for _, comment := range r.comments {
		if !comment.Approved {
			pending = append(pending, comment)
		}
	}
	return paginate(pending, limit, offset), nil
}

func (r *fakeCommentRepo) forPost(postID ulid.ULID, approvedOnly bool) []*Comment {
	var matched []*Comment
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

func paginate[T any](items []*T, limit, offset int) []*T {
	out := make([]*T, 0, limit)
	for i := offset; i < len(items) && len(out) < limit; i++ {
		cp := *items[i]
		out = append(out, &cp)
	}
	return out
}

func paginateReverse[T any](items []*T, limit, offset int) []*T {
	out := make([]*T, 0, limit)
	for i := len(items) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *items[i]
		out = append(out, &cp)
	}
	return out
}
