package handlers

import (
	"net/http"
	"time"
)

const version = "0.1.0"

var startedAt = time.Now()

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	Conversations int    `json:"conversations"`
	Timestamp     string `json:"timestamp"`
}

// Health handles the health check endpoint. The store is in-memory, so the
// only meaningful check is that the core answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "healthy",
		Version:       version,
		Uptime:        time.Since(startedAt).Round(time.Second).String(),
		Conversations: len(h.svc.Conversations("")),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	h.JSON(w, http.StatusOK, resp)
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "AgriLink Messaging",
		Version: version,
	})
}
