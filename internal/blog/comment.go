// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultAuthorName is used when a comment is created without an author name.
const DefaultAuthorName = "Anonymous"

// Comment represents a comment on a blog post.
//
// PostID is set at construction and immutable. Comments are approved by
// default; moderation flips the flag through Approve and Reject.
type Comment struct {
	ID          ulid.ULID
	PostID      ulid.ULID
	Content     string
	AuthorName  string
	AuthorEmail string
	Approved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewComment creates a validated Comment for the given post.
// Empty authorName falls back to DefaultAuthorName.
func NewComment(postID ulid.ULID, content, authorName, authorEmail string) (*Comment, error) {
	if postID == (ulid.ULID{}) {
		return nil, &ValidationError{Field: "post_id", Message: "is required"}
	}
	if authorName == "" {
		authorName = DefaultAuthorName
	}
	if err := ValidateCommentContent(content); err != nil {
		return nil, err
	}
	if err := ValidateAuthorName(authorName); err != nil {
		return nil, err
	}
	if err := ValidateAuthorEmail(authorEmail); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Comment{
		ID:          ulid.Make(),
		PostID:      postID,
		Content:     content,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		Approved:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidateCommentContent checks that comment content is non-blank and within bounds.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	if len(content) > MaxCommentContentLength {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("exceeds maximum length of %d", MaxCommentContentLength)}
	}
	return nil
}

// ValidateAuthorName checks that an author name is within bounds.
func ValidateAuthorName(name string) error {
	if len(name) > MaxAuthorNameLength {
		return &ValidationError{Field: "author_name", Message: fmt.Sprintf("exceeds maximum length of %d", MaxAuthorNameLength)}
	}
	return nil
}

// ValidateAuthorEmail checks an optional author email.
// Empty is allowed; a non-empty value must contain "@" and fit the limit.
func ValidateAuthorEmail(email string) error {
	if len(email) > MaxAuthorEmailLength {
		return &ValidationError{Field: "author_email", Message: fmt.Sprintf("exceeds maximum length of %d", MaxAuthorEmailLength)}
	}
	if email != "" && !strings.Contains(email, "@") {
		return &ValidationError{Field: "author_email", Message: "must be a valid email address"}
	}
	return nil
}

// SetContent updates the content. On validation failure the comment is unchanged.
func (c *Comment) SetContent(content string) error {
	if err := ValidateCommentContent(content); err != nil {
		return err
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetAuthorInfo updates author name and/or email. Nil means "leave as is".
// Both fields are validated before either is applied, so a failure leaves
// the comment unchanged.
func (c *Comment) SetAuthorInfo(name, email *string) error {
	if name != nil {
		if err := ValidateAuthorName(*name); err != nil {
			return err
		}
	}
	if email != nil {
		if err := ValidateAuthorEmail(*email); err != nil {
			return err
		}
	}
	if name != nil {
		c.AuthorName = *name
	}
	if email != nil {
		c.AuthorEmail = *email
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Approve marks the comment approved. Approving an approved comment is a no-op.
func (c *Comment) Approve() {
	if !c.Approved {
		c.Approved = true
		c.UpdatedAt = time.Now().UTC()
	}
}

// Reject hides the comment from display. Rejecting a rejected comment is a no-op.
func (c *Comment) Reject() {
	if c.Approved {
		c.Approved = false
		c.UpdatedAt = time.Now().UTC()
	}
}
