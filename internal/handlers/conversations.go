package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrilink/messaging/internal/models"
)

// ConversationListResponse represents the conversation list response.
type ConversationListResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	Total         int                   `json:"total"`
}

// TranscriptResponse represents the transcript response for one conversation.
type TranscriptResponse struct {
	Conversation models.Conversation `json:"conversation"`
	Messages     []models.Message    `json:"messages"`
	Typing       bool                `json:"typing"`
}

// SendMessageRequest represents the send message request.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageResponse represents the send message response.
type SendMessageResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// ListConversations handles listing conversation summaries, optionally
// filtered by peer name.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	conversations := h.svc.Conversations(query)

	h.JSON(w, http.StatusOK, ConversationListResponse{
		Conversations: conversations,
		Total:         len(conversations),
	})
}

// GetTranscript handles fetching one conversation's transcript snapshot.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID format")
		return
	}

	conv, err := h.svc.Conversation(id)
	if err != nil {
		h.coreError(w, err)
		return
	}

	messages, err := h.svc.Transcript(id)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, TranscriptResponse{
		Conversation: conv,
		Messages:     messages,
		Typing:       h.svc.Typing(id),
	})
}

// SendMessage handles posting a user message to a conversation.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID format")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Text) > 4096 {
		h.Error(w, http.StatusUnprocessableEntity, "text too long (max 4096 bytes)")
		return
	}

	msg, err := h.svc.SendUserMessage(id, req.Text)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.JSON(w, http.StatusCreated, SendMessageResponse{
		ID:        msg.ID,
		Timestamp: msg.Timestamp,
	})
}

// SelectConversation handles switching the active thread.
func (h *Handler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID format")
		return
	}

	conv, err := h.svc.SelectConversation(id)
	if err != nil {
		h.coreError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, conv)
}

// DeselectConversation handles returning to the list view.
func (h *Handler) DeselectConversation(w http.ResponseWriter, r *http.Request) {
	h.svc.DeselectConversation()
	w.WriteHeader(http.StatusNoContent)
}
