package handlers

import (
	"net/http"

	"github.com/agrilink/messaging/internal/models"
)

// CatalogResponse represents a catalog listing response.
type CatalogResponse struct {
	Items []models.ItemCard `json:"items"`
	Total int               `json:"total"`
}

// CatalogNearby handles listing crops near the buyer.
func (h *Handler) CatalogNearby(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Nearby()
	h.JSON(w, http.StatusOK, CatalogResponse{Items: items, Total: len(items)})
}

// CatalogRecent handles listing recently added crops.
func (h *Handler) CatalogRecent(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Recent()
	h.JSON(w, http.StatusOK, CatalogResponse{Items: items, Total: len(items)})
}
