package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-otp-auth/internal/application/auth"
)

// SignupHandler handles the email-verified signup flow.
type SignupHandler struct {
	svc auth.SignupService
}

func NewSignupHandler(svc auth.SignupService) *SignupHandler {
	return &SignupHandler{svc: svc}
}

func (h *SignupHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var req auth.SignupCodeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := h.svc.RequestSignupCode(r.Context(), req); err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
	case "validate-code":
		var req auth.VerifySignupRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		u, err := h.svc.VerifySignupCode(r.Context(), req)
		if err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, UserEnvelope{Message: "Email verified successfully", User: toUserView(u)})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
