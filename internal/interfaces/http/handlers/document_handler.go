package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	"github.com/polyforge/polychain/pkg/errors"
)

// DocumentHandler serves the stored-document endpoints.
type DocumentHandler struct {
	store *fsstore.Store
}

// NewDocumentHandler constructs a DocumentHandler. store may be nil when the
// server runs without persistence, in which case every endpoint reports a
// not-found condition.
func NewDocumentHandler(store *fsstore.Store) *DocumentHandler {
	return &DocumentHandler{store: store}
}

// ListResponse wraps the document listing.
type ListResponse struct {
	Documents []fsstore.DocumentInfo `json:"documents"`
	Count     int                    `json:"count"`
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, errors.CodeNotFound, "document store is not configured")
		return
	}
	docs, err := h.store.List()
	if err != nil {
		writeAppError(w, err)
		return
	}
	if docs == nil {
		docs = []fsstore.DocumentInfo{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Documents: docs, Count: len(docs)})
}

// Get handles GET /api/v1/documents/{name}, returning the raw XYZ text.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, errors.CodeNotFound, "document store is not configured")
		return
	}
	data, err := h.store.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Delete handles DELETE /api/v1/documents/{name}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, errors.CodeNotFound, "document store is not configured")
		return
	}
	if err := h.store.Delete(chi.URLParam(r, "name")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
