package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taxdesk-backend/internal/ctxkeys"
	"taxdesk-backend/internal/history"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryHandler serves a signed-in user's saved calculations.
type HistoryHandler struct {
	store history.Store
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(store history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List handles GET /api/calculations?limit=N
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.GetUserID(r.Context())

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := h.store.ListByUser(ctx, userID, limit)
	if err != nil {
		log.Printf("Error listing calculations for %s: %v", userID, err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch calculations")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":  records,
		"total": len(records),
	})
}

// GetByID handles GET /api/calculations/{id}
// Records owned by other users are reported as not found.
func (h *HistoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid calculation ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.store.Get(ctx, id)
	if errors.Is(err, history.ErrNotFound) {
		JSONError(w, http.StatusNotFound, "Calculation not found")
		return
	}
	if err != nil {
		log.Printf("Error fetching calculation %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch calculation")
		return
	}
	if rec.UserID != ctxkeys.GetUserID(r.Context()) {
		JSONError(w, http.StatusNotFound, "Calculation not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": rec,
	})
}
