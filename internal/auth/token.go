// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Token kinds carried in the "type" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL = 30 * time.Minute
	DefaultResetTokenTTL  = 15 * time.Minute
)

// TokenConfig configures the TokenManager. Zero TTLs fall back to the
// defaults.
type TokenConfig struct {
	Secret    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Superuser bool   `json:"is_superuser"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// resetClaims is the payload of a password reset token.
type resetClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed, self-contained HS256 tokens.
//
// Tokens are stateless: there is no server-side revocation, so a token
// stays valid until its embedded expiry regardless of later account
// changes.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("token secret is required")
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	resetTTL := cfg.ResetTTL
	if resetTTL <= 0 {
		resetTTL = DefaultResetTokenTTL
	}
	return &TokenManager{
		secret:    []byte(cfg.Secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
	}, nil
}

// IssueAccess creates an access token from a user snapshot.
func (m *TokenManager) IssueAccess(user *User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Username:  user.Username,
		Email:     user.Email,
		Superuser: user.Superuser,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// IssueReset creates a password reset token for a user id.
func (m *TokenManager) IssueReset(userID ulid.ULID) (string, error) {
	now := time.Now()
	claims := resetClaims{
		UserID:    userID.String(),
		TokenType: TokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.resetTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// DecodeAccess verifies signature, expiry, and type tag of an access token
// and returns its claims. Every failure mode, expiry included, collapses to
// ErrTokenInvalid.
func (m *TokenManager) DecodeAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, oops.Code("AUTH_TOKEN_INVALID").
			With("reason", "wrong token type").
			Wrap(ErrTokenInvalid)
	}
	return claims, nil
}

// DecodeReset verifies a reset token and returns the embedded user id.
// Every failure mode, expiry included, collapses to ErrTokenInvalid.
func (m *TokenManager) DecodeReset(token string) (ulid.ULID, error) {
	claims := &resetClaims{}
	if err := m.parse(token, claims); err != nil {
		return ulid.ULID{}, err
	}
	if claims.TokenType != TokenTypeReset {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").
			With("reason", "wrong token type").
			Wrap(ErrTokenInvalid)
	}

	userID, err := ulid.Parse(claims.UserID)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").
			With("operation", "parse user id claim").
			Wrap(ErrTokenInvalid)
	}
	return userID, nil
}

// AccessExpirySeconds returns the access token lifetime in whole seconds.
func (m *TokenManager) AccessExpirySeconds() int {
	return int(m.accessTTL.Seconds())
}

func (m *TokenManager) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return oops.Code("AUTH_TOKEN_INVALID").Wrap(ErrTokenInvalid)
	}
	return nil
}
