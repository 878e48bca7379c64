package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agrilink/messaging/internal/catalog"
	"github.com/agrilink/messaging/internal/chat"
	"github.com/agrilink/messaging/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	svc     *chat.Service
	catalog catalog.Source
}

// NewHandler creates a new Handler.
func NewHandler(svc *chat.Service, src catalog.Source) *Handler {
	return &Handler{svc: svc, catalog: src}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// coreError maps messaging core errors to HTTP responses.
func (h *Handler) coreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.Error(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, store.ErrInvalidMessage):
		h.Error(w, http.StatusUnprocessableEntity, "message text must not be empty")
	default:
		h.Error(w, http.StatusInternalServerError, "internal error")
	}
}
