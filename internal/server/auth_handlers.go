package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/battlecards/service/internal/auth"
	"github.com/battlecards/service/internal/database"
	"github.com/battlecards/service/internal/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 8
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if len(req.Username) < minUsernameLen || len(req.Username) > maxUsernameLen {
		badRequest(w, "username must be 3-32 characters")
		return
	}
	if len(req.Password) < minPasswordLen {
		badRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	u := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			writeJSON(w, http.StatusConflict, errorBody{Kind: "username_taken", Message: "username already taken"})
			return
		}
		s.writeError(w, err)
		return
	}

	token, err := s.tokens.IssueToken(u.Username)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.WithField("username", u.Username).Info("user registered")
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, Username: u.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	u, err := s.users.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, database.ErrUserNotFound) || (err == nil && !auth.CheckPassword(u.PasswordHash, req.Password)) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "invalid_credentials", Message: "invalid username or password"})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.tokens.IssueToken(u.Username)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, Username: u.Username})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.GetByUsername(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	me := caller(r)
	if err := s.users.UpdateDisplayName(r.Context(), me, req.DisplayName); err != nil {
		s.writeError(w, err)
		return
	}
	u, err := s.users.GetByUsername(r.Context(), me)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
