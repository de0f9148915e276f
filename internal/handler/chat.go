// Package handler provides HTTP handlers for the recommendation API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nova-ai/movie-recommender/internal/middleware"
	"github.com/nova-ai/movie-recommender/internal/service"
	"github.com/nova-ai/movie-recommender/pkg/logger"
)

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	chatService *service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatSvc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatSvc,
		logger:      log,
	}
}

// turnRequest is the body of a chat turn.
type turnRequest struct {
	Text string `json:"text"`
}

// Message handles POST /api/v1/chat/message
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateTurnText(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.chatService.HandleMessage(ctx, req.Text)
	writeJSON(w, http.StatusOK, result)
}

// Reset handles POST /api/v1/chat/reset
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.chatService.Reset()
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "reset",
	})
}
