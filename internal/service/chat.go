package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/assistant"
	"github.com/sakif/skillverse/internal/model"
)

// ChatInput is the body of a chat proxy request.
type ChatInput struct {
	Message string           `json:"message" validate:"notblank,max=4000"`
	Context []model.ChatTurn `json:"context" validate:"max=200,dive"`
}

// ChatService relays chat messages to the configured assistant.
type ChatService struct {
	assistant assistant.Assistant
	validator StructValidator
	logger    *slog.Logger
}

// NewChatService wires the service. A nil assistant means chat is not
// configured; Reply then reports it as unavailable.
func NewChatService(a assistant.Assistant, validator StructValidator, logger *slog.Logger) *ChatService {
	return &ChatService{assistant: a, validator: validator, logger: logger}
}

// Reply validates the input before anything is sent upstream, so blank
// messages never reach the model.
func (s *ChatService) Reply(ctx context.Context, in ChatInput) (string, error) {
	if err := s.validator.Struct(in); err != nil {
		return "", err
	}
	if s.assistant == nil {
		return "", apperror.Unavailable("chat assistant")
	}

	res, err := s.assistant.Reply(ctx, assistant.ChatRequest{
		Message: strings.TrimSpace(in.Message),
		Context: in.Context,
	})
	if err != nil {
		s.logger.Error("chat reply failed", slog.String("error", err.Error()))
		return "", err
	}
	return res.Text, nil
}
