// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username and profile validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 255
	MaxFullNameLength = 100
)

// usernameRegex matches usernames that contain only letters, numbers, and
// underscores. Leading/trailing underscores are checked separately.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// emailRegex is a permissive local@domain.tld check, not RFC-complete.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User represents a user account.
//
// PasswordHash is an opaque credential hash and is never included in the
// public representation.
type User struct {
	ID           ulid.ULID
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	Active       bool
	Superuser    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the externally visible shape of a User.
type PublicUser struct {
	ID        ulid.ULID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Active    bool      `json:"is_active"`
	Superuser bool      `json:"is_superuser"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a validated User. Usernames are trimmed, emails are
// trimmed and lowercased, and an empty full name is stored as absent.
// New accounts are active and not superusers.
func NewUser(username, email, passwordHash string, fullName *string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	fullName, err := normalizeFullName(fullName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername validates a username against rules.
// Username requirements:
// - Length: MinUsernameLength to MaxUsernameLength characters
// - Letters, numbers, and underscores only
// - No leading or trailing underscore
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username must contain only letters, numbers, and underscores")
	}
	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username cannot start or end with underscore")
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates a normalized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email must have a valid format")
	}
	return nil
}

// normalizeFullName trims a full name, maps blank to absent, and checks the
// length bound.
func normalizeFullName(fullName *string) (*string, error) {
	if fullName == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*fullName)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > MaxFullNameLength {
		return nil, oops.Code("AUTH_INVALID_FULL_NAME").
			With("max", MaxFullNameLength).
			Errorf("full name must be at most %d characters", MaxFullNameLength)
	}
	return &trimmed, nil
}

// SetUsername updates the username. On validation failure the user is unchanged.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return err
	}
	u.Username = username
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetEmail updates the email. On validation failure the user is unchanged.
func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPasswordHash replaces the stored credential hash.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetFullName updates the full name. Nil or blank clears it.
func (u *User) SetFullName(fullName *string) error {
	normalized, err := normalizeFullName(fullName)
	if err != nil {
		return err
	}
	u.FullName = normalized
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Activate enables the account. Activating an active account is a no-op.
func (u *User) Activate() {
	if !u.Active {
		u.Active = true
		u.UpdatedAt = time.Now().UTC()
	}
}

// Deactivate disables the account, revoking superuser privileges since
// only active accounts may hold them. Deactivating an inactive account
// is a no-op.
func (u *User) Deactivate() {
	if u.Active {
		u.Active = false
		u.Superuser = false
		u.UpdatedAt = time.Now().UTC()
	}
}

// GrantSuperuser grants admin privileges. The account must be active.
// Granting to a superuser is a no-op.
func (u *User) GrantSuperuser() error {
	if !u.Active {
		return oops.Code("AUTH_INACTIVE_USER").
			Errorf("cannot grant superuser privileges to inactive user")
	}
	if !u.Superuser {
		u.Superuser = true
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// RevokeSuperuser removes admin privileges. Revoking from a non-superuser
// is a no-op.
func (u *User) RevokeSuperuser() {
	if u.Superuser {
		u.Superuser = false
		u.UpdatedAt = time.Now().UTC()
	}
}

// Public returns the externally visible representation. The password hash
// is always excluded.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Active:    u.Active,
		Superuser: u.Superuser,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateUser if the username
	// or email is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByUsername reports whether the username is taken (case-insensitive).
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether the email is taken (case-insensitive).
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes a user. Returns false if it did not exist.
	Delete(ctx context.Context, id ulid.ULID) (bool, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}
