package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-auth/internal/application/detail"
	"github.com/go-otp-auth/internal/domain"
)

// DetailHandler handles the title/description records.
type DetailHandler struct {
	svc detail.Service
}

func NewDetailHandler(svc detail.Service) *DetailHandler {
	return &DetailHandler{svc: svc}
}

func (h *DetailHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.DetailInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, DataEnvelope{Error: "invalid request body"})
		return
	}
	d, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Success: true, Data: d})
}

func (h *DetailHandler) List(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Success: true, Data: details})
}

func (h *DetailHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(r, err)
	writeJSON(w, status, DataEnvelope{Error: msg})
}
