// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

// Package blog contains the blog domain types and logic.
package blog

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Validation limits for blog domain types.
const (
	MaxTitleLength          = 200
	MaxCommentContentLength = 1000
	MaxAuthorNameLength     = 100
	MaxAuthorEmailLength    = 255
)

// Post represents a blog post.
//
// CommentIDs holds the ids of the post's comments in insertion order,
// which matches creation order. The list never contains duplicates.
type Post struct {
	ID         ulid.ULID
	Title      string
	Content    string
	CommentIDs []ulid.ULID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPost creates a validated Post with a fresh id and equal
// created/updated timestamps.
func NewPost(title, content string) (*Post, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidatePostContent(content); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Post{
		ID:        ulid.Make(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateTitle checks that a post title is non-blank and within bounds.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if len(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("exceeds maximum length of %d", MaxTitleLength)}
	}
	return nil
}

// ValidatePostContent checks that post content is non-blank.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	return nil
}

// SetTitle updates the title. On validation failure the post is unchanged.
func (p *Post) SetTitle(title string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	p.Title = title
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SetContent updates the content. On validation failure the post is unchanged.
func (p *Post) SetContent(content string) error {
	if err := ValidatePostContent(content); err != nil {
		return err
	}
	p.Content = content
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AddCommentID appends a comment id to the post's list.
// Duplicate ids are rejected and leave the post unchanged.
func (p *Post) AddCommentID(commentID ulid.ULID) error {
	for _, id := range p.CommentIDs {
		if id == commentID {
			return &ValidationError{Field: "comment_id", Message: "already associated with this post"}
		}
	}
	p.CommentIDs = append(p.CommentIDs, commentID)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveCommentID removes a comment id from the post's list.
// An id that is not in the list is rejected and leaves the post unchanged.
func (p *Post) RemoveCommentID(commentID ulid.ULID) error {
	for i, id := range p.CommentIDs {
		if id == commentID {
			p.CommentIDs = append(p.CommentIDs[:i], p.CommentIDs[i+1:]...)
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return &ValidationError{Field: "comment_id", Message: "not associated with this post"}
}

// CommentCount returns the number of comments associated with the post.
func (p *Post) CommentCount() int {
	return len(p.CommentIDs)
}
