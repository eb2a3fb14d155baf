package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-auth/internal/application/auth"
)

// ResetRequestedMessage is returned for every well-formed reset request,
// whether or not the email belongs to an account.
const ResetRequestedMessage = "If an account exists, a code has been sent."

// PasswordRecoveryHandler handles password recovery flow endpoints.
type PasswordRecoveryHandler struct {
	svc auth.PasswordRecoveryService
}

func NewPasswordRecoveryHandler(svc auth.PasswordRecoveryService) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{svc: svc}
}

func (h *PasswordRecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var req auth.PasswordResetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := h.svc.RequestPasswordReset(r.Context(), req); err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: ResetRequestedMessage})
	case "validate-code":
		var req auth.ResetPasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := h.svc.ResetPassword(r.Context(), req); err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password updated successfully"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
