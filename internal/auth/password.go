// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package auth

import (
	"strings"
	"unicode"

	"github.com/samber/oops"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// passwordSpecialChars is the fixed set of accepted special characters.
const passwordSpecialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// ValidatePasswordStrength checks a plaintext password against the policy
// shared by registration, password change, and reset confirmation:
// at least MinPasswordLength characters, with at least one uppercase
// letter, one lowercase letter, one digit, and one special character.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code("AUTH_WEAK_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
		if strings.ContainsRune(passwordSpecialChars, r) {
			special = true
		}
	}

	switch {
	case !upper:
		return oops.Code("AUTH_WEAK_PASSWORD").
			Errorf("password must contain at least one uppercase letter")
	case !lower:
		return oops.Code("AUTH_WEAK_PASSWORD").
			Errorf("password must contain at least one lowercase letter")
	case !digit:
		return oops.Code("AUTH_WEAK_PASSWORD").
			Errorf("password must contain at least one digit")
	case !special:
		return oops.Code("AUTH_WEAK_PASSWORD").
			Errorf("password must contain at least one special character")
	}
	return nil
}
