package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-otp-auth/internal/domain"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UserView is the public projection of a user. It never carries password data.
type UserView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserEnvelope wraps responses that echo the user back.
type UserEnvelope struct {
	Message string    `json:"message,omitempty"`
	Token   string    `json:"token,omitempty"`
	User    *UserView `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// DataEnvelope is the {success, data} wrapper used by the details routes.
type DataEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func toUserView(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{Email: u.Email, Name: u.DisplayName}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// decodeJSON reads the request body into v. It writes a 400 and returns false
// when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// classify maps a service error to a status and a client-safe message.
// Anything unclassified is a 500 whose detail is logged and never returned.
func classify(r *http.Request, err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrExpired):
		return http.StatusBadRequest, "code has expired"
	case errors.Is(err, domain.ErrMismatch):
		return http.StatusBadRequest, "invalid code"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusBadRequest, "no pending request for this email"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, "email already registered"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "invalid credentials"
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		return http.StatusInternalServerError, "internal server error"
	}
}

func httpError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(r, err)
	writeError(w, status, msg)
}
