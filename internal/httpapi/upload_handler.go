package httpapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/storage"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20

type UploadHandler struct {
	blobs storage.BlobStorage
}

func NewUploadHandler(blobs storage.BlobStorage) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

type UploadResponseDTO struct {
	URL string `json:"url"`
}

// Upload stores one product image from a multipart form and returns its
// public URL. The client attaches the URL to a product afterwards.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if !session.IsSeller() && !session.IsAdmin() {
		respondError(w, http.StatusForbidden, "forbidden", "only sellers can upload images")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		respondError(w, http.StatusBadRequest, "invalid_file_type", "image must be jpg, png or webp")
		return
	}

	path := fmt.Sprintf("products/%s/%s%s", session.UserID, uuid.NewString(), ext)
	url, err := h.blobs.Upload(r.Context(), path, file)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, UploadResponseDTO{URL: url})
}
