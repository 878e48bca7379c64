package handlers

import (
	"net/http"

	"github.com/agrilink/messaging/internal/models"
)

// PermissionResponse represents the location permission state.
type PermissionResponse struct {
	State models.PermissionState `json:"state"`
}

// QuickRepliesResponse represents the assistant suggestion chips.
type QuickRepliesResponse struct {
	QuickReplies []string `json:"quick_replies"`
}

// GetPermission handles reading the location permission state.
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, PermissionResponse{State: h.svc.PermissionState()})
}

// RequestPermission runs the geolocation acquisition and resolves the
// permission state machine. The outcome lands in the assistant transcript;
// the handler only reports the resolved state.
func (h *Handler) RequestPermission(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.RequestLocationPermission(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "permission request failed")
		return
	}
	h.JSON(w, http.StatusOK, PermissionResponse{State: state})
}

// QuickReplies handles listing the assistant suggestion chips.
func (h *Handler) QuickReplies(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, QuickRepliesResponse{QuickReplies: h.svc.QuickReplies()})
}
