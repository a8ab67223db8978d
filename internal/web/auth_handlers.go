// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package web

import (
	"net/http"

	"github.com/inkpress/inkpress/internal/observability"
)

type registerRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.authService.Register(r.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, user.Public())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		observability.RecordAuthFailure("bad_credentials")
		writeError(s.logger, w, err)
		return
	}

	grant, err := s.authService.IssueAccessToken(user)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(s.logger, w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "password changed", "username", user.Username)
	w.WriteHeader(http.StatusNoContent)
}

// handlePasswordResetRequest responds identically whether or not the
// email is registered so accounts cannot be enumerated.
func (s *Server) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := s.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	if token != "" {
		// Delivery (email) is out of band. The token is never returned to
		// the caller.
		s.logger.DebugContext(r.Context(), "password reset token issued", "email", req.Email)
	}

	writeJSON(w, http.StatusAccepted, messageResponse{
		Message: "if the email is registered, a reset token has been issued",
	})
}

func (s *Server) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.authService.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		observability.RecordAuthFailure("reset_token")
		writeError(s.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
