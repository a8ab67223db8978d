// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package auth

import "errors"

// Sentinel errors for repository and service results.
var (
	// ErrUserNotFound is returned when a requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials is the single outcome for every authentication
	// failure: unknown identifier, inactive user, or wrong password.
	// The causes are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrTokenInvalid is the single outcome for every token failure,
	// including expiry. Expiry is deliberately not distinguished.
	ErrTokenInvalid = errors.New("invalid token")
)
