// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	post, err := NewPost("Hello", "first post")
	require.NoError(t, err)
	assert.NotEqual(t, ulid.ULID{}, post.ID)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "first post", post.Content)
	assert.Empty(t, post.CommentIDs)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "plain", title: "Hello"},
		{name: "at limit", title: strings.Repeat("a", MaxTitleLength)},
		{name: "empty", title: "", wantErr: true},
		{name: "whitespace only", title: "   ", wantErr: true},
		{name: "over limit", title: strings.Repeat("a", MaxTitleLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "title", verr.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPost_SetTitle_RollbackOnInvalid(t *testing.T) {
	post, err := NewPost("Hello", "content")
	require.NoError(t, err)

	require.Error(t, post.SetTitle("  "))
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)

	require.NoError(t, post.SetTitle("Updated"))
	assert.Equal(t, "Updated", post.Title)
}

func TestPost_SetContent_RollbackOnInvalid(t *testing.T) {
	post, err := NewPost("Hello", "content")
	require.NoError(t, err)

	require.Error(t, post.SetContent(""))
	assert.Equal(t, "content", post.Content)

	require.NoError(t, post.SetContent("new content"))
	assert.Equal(t, "new content", post.Content)
}

func TestPost_CommentIDs(t *testing.T) {
	post, err := NewPost("Hello", "content")
	require.NoError(t, err)

	first := ulid.Make()
	second := ulid.Make()
	require.NoError(t, post.AddCommentID(first))
	require.NoError(t, post.AddCommentID(second))
	assert.Equal(t, []ulid.ULID{first, second}, post.CommentIDs)
	assert.Equal(t, 2, post.CommentCount())

	t.Run("duplicate rejected", func(t *testing.T) {
		err := post.AddCommentID(first)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 2, post.CommentCount())
	})

	t.Run("remove keeps order", func(t *testing.T) {
		require.NoError(t, post.RemoveCommentID(first))
		assert.Equal(t, []ulid.ULID{second}, post.CommentIDs)
	})

	t.Run("remove missing rejected", func(t *testing.T) {
		err := post.RemoveCommentID(first)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []ulid.ULID{second}, post.CommentIDs)
	})
}
