// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package blog

import (
	"errors"
	"fmt"
)

// Sentinel errors for repository and service results.
var (
	// ErrPostNotFound is returned when a requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound is returned when a requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrDuplicate is returned when a create would violate uniqueness.
	ErrDuplicate = errors.New("already exists")
)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
