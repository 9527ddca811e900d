package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/villa-booking-api/internal/application/villa"
	"github.com/villa-booking-api/internal/domain"
	s3infra "github.com/villa-booking-api/internal/infrastructure/s3"
	"github.com/villa-booking-api/internal/transport/http/middleware"
)

// Multipart field names for listing submissions.
const (
	fieldMainImage        = "mainImage"
	fieldAdditionalImages = "additionalImages"
)

// VillaHandler handles listing endpoints. Submissions arrive as multipart
// forms; images are stored first, then the service sees only URLs.
type VillaHandler struct {
	svc   villa.Service
	blobs BlobStore
}

func NewVillaHandler(svc villa.Service, blobs BlobStore) *VillaHandler {
	return &VillaHandler{svc: svc, blobs: blobs}
}

func (h *VillaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := r.ParseMultipartForm(maxVillaImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := domain.SubmitVillaRequest{
		Name:        r.FormValue("name"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
		Size:        r.FormValue("size"),
		BedType:     r.FormValue("bed_type"),
	}
	req.GuestCapacity, _ = strconv.Atoi(r.FormValue("guest_capacity"))
	req.PricePerNight, _ = strconv.ParseFloat(r.FormValue("price_per_night"), 64)
	if raw := r.FormValue("features"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Features); err != nil {
			writeError(w, http.StatusBadRequest, "features must be a JSON array of strings")
			return
		}
	}

	mains := r.MultipartForm.File[fieldMainImage]
	if len(mains) == 0 {
		writeError(w, http.StatusBadRequest, "main image is required")
		return
	}
	mainURL, err := storeImage(r.Context(), h.blobs, mains[0], s3infra.CategoryVillaImages, maxVillaImageBytes)
	if err != nil {
		respondError(w, err)
		return
	}
	req.MainImageURL = mainURL

	for _, fh := range r.MultipartForm.File[fieldAdditionalImages] {
		url, err := storeImage(r.Context(), h.blobs, fh, s3infra.CategoryVillaImages, maxVillaImageBytes)
		if err != nil {
			respondError(w, err)
			return
		}
		req.AdditionalImageURLs = append(req.AdditionalImageURLs, url)
	}

	v, err := h.svc.Submit(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{
		Message: "villa submitted and awaiting admin verification",
		Data:    v,
	})
}

func (h *VillaHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	villas, err := h.svc.List(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: villas})
}

func (h *VillaHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	v, err := h.svc.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: v})
}

func (h *VillaHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := r.ParseMultipartForm(maxVillaImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var req domain.UpdateVillaRequest
	formString(r, "name", &req.Name)
	formString(r, "location", &req.Location)
	formString(r, "description", &req.Description)
	formString(r, "size", &req.Size)
	formString(r, "bed_type", &req.BedType)
	if raw := r.FormValue("guest_capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "guest_capacity must be an integer")
			return
		}
		req.GuestCapacity = &n
	}
	if raw := r.FormValue("price_per_night"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "price_per_night must be a number")
			return
		}
		req.PricePerNight = &f
	}
	if raw := r.FormValue("features"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Features); err != nil {
			writeError(w, http.StatusBadRequest, "features must be a JSON array of strings")
			return
		}
	}

	if mains := r.MultipartForm.File[fieldMainImage]; len(mains) > 0 {
		url, err := storeImage(r.Context(), h.blobs, mains[0], s3infra.CategoryVillaImages, maxVillaImageBytes)
		if err != nil {
			respondError(w, err)
			return
		}
		req.MainImageURL = &url
	}
	for _, fh := range r.MultipartForm.File[fieldAdditionalImages] {
		url, err := storeImage(r.Context(), h.blobs, fh, s3infra.CategoryVillaImages, maxVillaImageBytes)
		if err != nil {
			respondError(w, err)
			return
		}
		req.NewAdditionalImages = append(req.NewAdditionalImages, url)
	}

	v, err := h.svc.Update(r.Context(), p, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{
		Message: "villa updated; status reset to pending for re-verification",
		Data:    v,
	})
}

func (h *VillaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "villa deleted"})
}

func (h *VillaHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: v})
}

// formString sets *dst only when the form field was provided, preserving
// partial-update semantics.
func formString(r *http.Request, field string, dst **string) {
	if vals, ok := r.MultipartForm.Value[field]; ok && len(vals) > 0 {
		v := vals[0]
		*dst = &v
	}
}
