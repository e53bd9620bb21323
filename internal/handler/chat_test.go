package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/assistant"
	"github.com/sakif/skillverse/internal/handler"
	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/service"
	"github.com/sakif/skillverse/internal/validate"
)

// MockAssistant records requests and answers with a canned reply.
type MockAssistant struct {
	Answer string
	Err    error
	Got    []assistant.ChatRequest
}

func (m *MockAssistant) Reply(_ context.Context, req assistant.ChatRequest) (*assistant.ChatResult, error) {
	m.Got = append(m.Got, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &assistant.ChatResult{Text: m.Answer, Turns: len(req.Context) + 1}, nil
}

func newChatHandler(a assistant.Assistant) *handler.ChatHandler {
	return handler.NewChatHandler(service.NewChatService(a, validate.New(), logging.Discard()), logging.Discard())
}

func TestHandleChat(t *testing.T) {
	t.Run("relays context and message", func(t *testing.T) {
		mock := &MockAssistant{Answer: "Goroutines are cheap threads."}
		h := newChatHandler(mock)

		rec := httptest.NewRecorder()
		h.HandleChat(rec, jsonRequest(t, http.MethodPost, "/api/gemini", map[string]any{
			"message": "What is a goroutine?",
			"context": []map[string]any{
				{"role": "user", "parts": []map[string]string{{"text": "hi"}}},
				{"role": "model", "parts": []map[string]string{{"text": "hello"}}},
			},
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"response":"Goroutines are cheap threads."}`, rec.Body.String())
		require.Len(t, mock.Got, 1)
		assert.Equal(t, "What is a goroutine?", mock.Got[0].Message)
		assert.Len(t, mock.Got[0].Context, 2)
	})

	t.Run("blank message never reaches the model", func(t *testing.T) {
		mock := &MockAssistant{Answer: "unused"}
		h := newChatHandler(mock)

		rec := httptest.NewRecorder()
		h.HandleChat(rec, jsonRequest(t, http.MethodPost, "/api/gemini", map[string]any{"message": "   "}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "message", decodeBody(t, rec)["field"])
		assert.Empty(t, mock.Got)
	})

	t.Run("upstream failure is a 502", func(t *testing.T) {
		mock := &MockAssistant{Err: apperror.Upstream("Gemini", errors.New("quota exceeded"))}
		h := newChatHandler(mock)

		rec := httptest.NewRecorder()
		h.HandleChat(rec, jsonRequest(t, http.MethodPost, "/api/gemini", map[string]any{"message": "hi"}))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "upstream_error", body["error"])
		assert.NotContains(t, rec.Body.String(), "quota exceeded")
	})

	t.Run("not configured is a 503", func(t *testing.T) {
		h := newChatHandler(nil)

		rec := httptest.NewRecorder()
		h.HandleChat(rec, jsonRequest(t, http.MethodPost, "/api/gemini", map[string]any{"message": "hi"}))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
