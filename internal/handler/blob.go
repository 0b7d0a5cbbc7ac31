package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/ricettario/internal/domain"
)

// BlobHandler serves photos kept by a blob store that has no public URLs of
// its own.
type BlobHandler struct {
	blobs domain.BlobReader
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(blobs domain.BlobReader) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

// HandleServe serves blob bytes with their stored Content-Type.
// GET /blobs/{path...}
func (h *BlobHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if path == "" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	data, contentType, err := h.blobs.Open(r.Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("serve blob", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Object names carry an upload timestamp and are never rewritten in place
	// by the application.
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
