package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/blog-api/internal/auth"
	"github.com/crucial707/blog-api/internal/csrf"
	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/session"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Directory *auth.Directory
	Sessions  *session.Manager
	CSRF      *csrf.Issuer
}

type credentialsInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ==========================
// Signup (POST /signup)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if !decodeInput(w, r, &input) {
		return
	}

	user, err := h.Directory.Register(r.Context(), input.Username, input.Password)
	if errors.Is(err, repo.ErrUsernameTaken) {
		writeAPIError(w, errUsernameTaken)
		return
	}
	if err != nil {
		internalError(w, r, "signup: create user failed", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]interface{}{
		"id":       user.ID,
		"username": input.Username,
		"password": input.Password,
	})
}

// ==========================
// Signin (POST /signin)
// ==========================
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if !decodeInput(w, r, &input) {
		return
	}

	user, err := h.Directory.Authenticate(r.Context(), input.Username, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.IncAuthRejection("bad_credentials")
		writeAPIError(w, errBadCredentials)
		return
	}
	if err != nil {
		internalError(w, r, "signin: lookup user failed", err)
		return
	}

	if _, err := h.Sessions.Begin(r.Context(), w, r, user.ID); err != nil {
		internalError(w, r, "signin: start session failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Signout (GET /signout)
// ==========================
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request, caller session.Caller) {
	if err := h.Sessions.End(r.Context(), w, caller); err != nil {
		internalError(w, r, "signout: end session failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Token (GET /token)
// ==========================
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if _, err := h.CSRF.Issue(w); err != nil {
		internalError(w, r, "token: issue csrf token failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
