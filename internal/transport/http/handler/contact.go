package handler

import (
	"encoding/json"
	"net/http"

	"github.com/villa-booking-api/internal/application/contact"
	"github.com/villa-booking-api/internal/domain"
)

type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Submit(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "message received, we will get back to you soon"})
}
