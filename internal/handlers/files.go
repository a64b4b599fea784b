package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"taxdesk-backend/internal/storage"
)

// FileHandler serves stored reports.
type FileHandler struct {
	store    storage.Store
	localDir string
}

// NewFileHandler creates a FileHandler. localDir is the LocalStore root;
// pass "" for remote stores, whose files are served by redirect.
func NewFileHandler(store storage.Store, localDir string) *FileHandler {
	return &FileHandler{store: store, localDir: localDir}
}

// ServeFile handles GET /api/files/*
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filePath := chi.URLParam(r, "*")
	if filePath == "" {
		JSONError(w, http.StatusBadRequest, "File path required.")
		return
	}

	if h.localDir == "" {
		http.Redirect(w, r, h.store.URL(filePath), http.StatusTemporaryRedirect)
		return
	}

	// Rooting the path before Clean strips any ".." segments.
	http.ServeFile(w, r, filepath.Join(h.localDir, filepath.Clean("/"+filePath)))
}
