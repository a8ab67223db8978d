// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

// Package web provides the HTTP API for Inkpress.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/blog"
	"github.com/inkpress/inkpress/pkg/errutil"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	//nolint:errcheck // response write error means the client went away
	json.NewEncoder(w).Encode(v)
}

// badRequestCodes are error codes for rejected input that never reaches
// the repositories.
var badRequestCodes = map[string]bool{
	"AUTH_INVALID_USERNAME":   true,
	"AUTH_INVALID_EMAIL":      true,
	"AUTH_INVALID_FULL_NAME":  true,
	"AUTH_WEAK_PASSWORD":      true,
	"AUTH_PASSWORD_INCORRECT": true,
	"AUTH_PASSWORD_UNCHANGED": true,
	"AUTH_INACTIVE_USER":      true,
}

// writeError maps a service error to an HTTP status. Unrecognized errors
// are logged and reported as a generic 500 so internals never leak to
// clients.
func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	code := ""
	if oopsErr, ok := oops.AsOops(err); ok {
		if c, ok := oopsErr.Code().(string); ok {
			code = c
		}
	}

	var validationErr *blog.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Code: code})
	case badRequestCodes[code]:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: code})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrTokenInvalid):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: code})
	case errors.Is(err, blog.ErrPostNotFound),
		errors.Is(err, blog.ErrCommentNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: code})
	case errors.Is(err, blog.ErrDuplicate), errors.Is(err, auth.ErrDuplicateUser):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: code})
	default:
		errutil.LogError(logger, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
