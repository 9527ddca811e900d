package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/villa-booking-api/internal/application/review"
	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/transport/http/middleware"
)

type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req domain.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.VillaID = chi.URLParam(r, "id")
	rev, err := h.svc.Create(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{
		Message: "review created",
		Data:    rev,
	})
}

func (h *ReviewHandler) ListForVilla(w http.ResponseWriter, r *http.Request) {
	reviews, summary, err := h.svc.ListForVilla(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VillaReviewsEnvelope{
		Summary: summary,
		Data:    reviews,
	})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), p, chi.URLParam(r, "reviewID")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "review deleted"})
}
