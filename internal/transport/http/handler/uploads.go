package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/pkg/id"
)

// Per-category upload size caps.
const (
	maxVillaImageBytes   = 10 << 20
	maxPaymentProofBytes = 5 << 20
)

// BlobStore is what the upload-handling handlers need from object storage.
type BlobStore interface {
	Upload(ctx context.Context, category, name string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// storeImage sniffs the file's real content type, enforces the image-only
// policy and the size cap, and uploads it under a fresh key. Returns the
// relative URL the blob will be served from.
func storeImage(ctx context.Context, blobs BlobStore, fh *multipart.FileHeader, category string, maxBytes int64) (string, error) {
	if fh.Size > maxBytes {
		return "", fmt.Errorf("file %q exceeds the %d MB limit: %w", fh.Filename, maxBytes>>20, domain.ErrBadRequest)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("only image uploads are accepted: %w", domain.ErrBadRequest)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := id.New() + strings.ToLower(filepath.Ext(fh.Filename))
	return blobs.Upload(ctx, category, name, f, contentType)
}

// UploadsHandler streams stored blobs back to the client.
type UploadsHandler struct {
	blobs BlobStore
}

func NewUploadsHandler(blobs BlobStore) *UploadsHandler { return &UploadsHandler{blobs: blobs} }

func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		writeError(w, http.StatusBadRequest, "invalid object key")
		return
	}
	body, contentType, err := h.blobs.Download(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "object not found")
		return
	}
	defer body.Close()
	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, body)
}
