// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides the authentication use cases.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenManager
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks: password verification still runs so response time stays
// consistent. This is NOT a real credential and will never match any
// password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// TokenGrant is the result of issuing an access token.
type TokenGrant struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"`
	User        PublicUser `json:"user"`
}

// Register creates a new user account.
//
// Password strength is validated before any persistence check; username
// uniqueness is checked before email uniqueness, so the first collision
// wins and is the one reported.
func (s *Service) Register(ctx context.Context, username, email, password string, fullName *string) (*User, error) {
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check username").
			Wrap(err)
	}
	if taken {
		return nil, oops.Code("AUTH_DUPLICATE_USER").
			With("field", "username").
			With("username", username).
			Wrap(ErrDuplicateUser)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check email").
			Wrap(err)
	}
	if taken {
		return nil, oops.Code("AUTH_DUPLICATE_USER").
			With("field", "email").
			With("email", email).
			Wrap(ErrDuplicateUser)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, email, hash, fullName)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return user, nil
}

// Authenticate verifies an identifier/password pair. The identifier is
// tried as username first, then as email.
//
// Unknown identifier, inactive user, and wrong password all produce the
// same AUTH_INVALID_CREDENTIALS outcome; a dummy-hash verification keeps
// response time uniform when the user is missing.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	user, err := s.users.GetByUsername(ctx, identifier)
	if err != nil && errors.Is(err, ErrUserNotFound) {
		user, err = s.users.GetByEmail(ctx, identifier)
	}

	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case err == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(err, ErrUserNotFound):
		// keep the dummy hash; verification still runs below
	default:
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "look up user").
			Wrap(err)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, invalidCredentials()
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !user.Active || !valid {
		return nil, invalidCredentials()
	}
	return user, nil
}

func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
}

// IssueAccessToken builds an access token from the user snapshot and
// returns it with its expiry and the user's public representation.
func (s *Service) IssueAccessToken(user *User) (*TokenGrant, error) {
	token, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	return &TokenGrant{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.tokens.AccessExpirySeconds(),
		User:        user.Public(),
	}, nil
}

// ResolveCurrentUser resolves an access token to its user. The user must
// still exist and be active. Every failure (bad token, missing or
// inactive user) is the same undistinguished AUTH_TOKEN_INVALID outcome.
func (s *Service) ResolveCurrentUser(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.DecodeAccess(token)
	if err != nil {
		return nil, invalidToken()
	}

	userID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return nil, invalidToken()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || !user.Active {
		return nil, invalidToken()
	}
	return user, nil
}

func invalidToken() error {
	return oops.Code("AUTH_TOKEN_INVALID").Wrap(ErrTokenInvalid)
}

// ChangePassword changes a user's password after verifying the current one.
// The new password must pass the strength policy and must differ from the
// current password.
func (s *Service) ChangePassword(ctx context.Context, userID ulid.ULID, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return oops.Code("USER_NOT_FOUND").
				With("user_id", userID.String()).
				Wrap(err)
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get user").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify current password").
			Wrap(err)
	}
	if !valid {
		return oops.Code("AUTH_PASSWORD_INCORRECT").
			Errorf("current password is incorrect")
	}

	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	// Reject a "new" password that verifies against the stored hash.
	same, err := s.hasher.Verify(newPassword, user.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "compare new password").
			Wrap(err)
	}
	if same {
		return oops.Code("AUTH_PASSWORD_UNCHANGED").
			Errorf("new password must be different from current password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update user").
			Wrap(err)
	}
	return nil
}

// RequestPasswordReset starts a password reset for the given email.
//
// It reports success regardless of whether the email matches an active
// user, to prevent email enumeration. The reset token is returned only on
// a match; delivering it (e.g. by email) is the caller's concern.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	if !user.Active {
		return "", nil
	}

	token, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		return "", oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "issue reset token").
			Wrap(err)
	}
	return token, nil
}

// ConfirmPasswordReset applies a new password using a reset token.
//
// Every failure in the chain, from a bad or expired token to a weak
// replacement password, collapses to the single generic "invalid or
// expired reset token" outcome. Deliberately non-specific.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.DecodeReset(token)
	if err != nil {
		return invalidResetToken()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || !user.Active {
		return invalidResetToken()
	}

	if err := ValidatePasswordStrength(newPassword); err != nil {
		return invalidResetToken()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return invalidResetToken()
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return invalidResetToken()
	}
	if err := s.users.Update(ctx, user); err != nil {
		return invalidResetToken()
	}
	return nil
}

func invalidResetToken() error {
	return oops.Code("AUTH_RESET_TOKEN_INVALID").
		Wrapf(ErrTokenInvalid, "invalid or expired reset token")
}
