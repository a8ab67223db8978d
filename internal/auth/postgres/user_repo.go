// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

// Package postgres implements auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpress/inkpress/internal/auth"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, full_name, is_active, is_superuser, created_at, updated_at`

// Create stores a new user. Unique index violations on username or email
// surface as auth.ErrDuplicateUser tagged with the colliding field.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		user.ID.String(),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Active,
		user.Superuser,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return oops.Code("AUTH_DUPLICATE_USER").
				With("field", field).
				Wrap(auth.ErrDuplicateUser)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// duplicateField maps a unique violation to the colliding column.
func duplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return "", false
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return "email", true
	}
	return "username", true
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrUserNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrUserNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrUserNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// ExistsByUsername reports whether the username is taken (case-insensitive).
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))
	`, username).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_FAILED").
			With("operation", "check username").
			With("username", username).
			Wrap(err)
	}
	return exists, nil
}

// ExistsByEmail reports whether the email is taken (case-insensitive).
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))
	`, email).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_FAILED").
			With("operation", "check email").
			With("email", email).
			Wrap(err)
	}
	return exists, nil
}

// Update updates an existing user.
func (r *UserRepository) Update(ctx context.Context, user *auth.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, full_name = $5,
		    is_active = $6, is_superuser = $7, updated_at = $8
		WHERE id = $1
	`,
		user.ID.String(),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Active,
		user.Superuser,
		user.UpdatedAt,
	)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return oops.Code("AUTH_DUPLICATE_USER").
				With("field", field).
				Wrap(auth.ErrDuplicateUser)
		}
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("id", user.ID.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", user.ID.String()).
			Wrap(auth.ErrUserNotFound)
	}
	return nil
}

// Delete removes a user. Returns false if it did not exist.
func (r *UserRepository) Delete(ctx context.Context, id ulid.ULID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return false, oops.Code("USER_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, oops.Code("USER_COUNT_FAILED").Wrap(err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		user  auth.User
		idStr string
	)
	err := row.Scan(
		&idStr,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Active,
		&user.Superuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_CORRUPT_ID").
			With("id", idStr).
			Wrap(err)
	}
	return &user, nil
}
