package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/villa-booking-api/internal/application/booking"
	"github.com/villa-booking-api/internal/domain"
	s3infra "github.com/villa-booking-api/internal/infrastructure/s3"
	"github.com/villa-booking-api/internal/transport/http/middleware"
)

const fieldPaymentProof = "paymentProof"

type BookingHandler struct {
	svc   booking.Service
	blobs BlobStore
}

func NewBookingHandler(svc booking.Service, blobs BlobStore) *BookingHandler {
	return &BookingHandler{svc: svc, blobs: blobs}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.svc.Create(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{
		Message: "booking created",
		Data:    b,
	})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	bookings, err := h.svc.List(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: bookings})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	b, err := h.svc.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: b})
}

// UpdateStatus accepts either a JSON body or a multipart form. The multipart
// form lets a guest attach a payment proof image when re-submitting a
// pending booking.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var req domain.UpdateBookingStatusRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPaymentProofBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req.Status = r.FormValue("status")
		if proofs := r.MultipartForm.File[fieldPaymentProof]; len(proofs) > 0 {
			url, err := storeImage(r.Context(), h.blobs, proofs[0], s3infra.CategoryPaymentProofs, maxPaymentProofBytes)
			if err != nil {
				respondError(w, err)
				return
			}
			req.PaymentProofURL = &url
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	b, err := h.svc.UpdateStatus(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{
		Message: "booking status updated",
		Data:    b,
	})
}
