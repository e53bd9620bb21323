package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skillverse/internal/service"
)

// ChatHandler proxies the course assistant.
type ChatHandler struct {
	chat   *service.ChatService
	logger *slog.Logger
}

func NewChatHandler(chat *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

type chatResponse struct {
	Response string `json:"response"`
}

// HandleChat sends the message and its context to the model.
//
// HTTP: POST /api/gemini
// Body: {"message": "...", "context": [{"role": "user", "parts": [{"text": "..."}]}]}
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var in service.ChatInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	text, err := h.chat.Reply(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: text})
}
