package client

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/sakif/skillverse/internal/model"
)

const (
	// ThinkingText is shown while a reply is outstanding.
	ThinkingText = "Thinking…"
	// FallbackReply replaces the answer whenever the chat request fails.
	FallbackReply = "Sorry, I couldn't process your request. Please try again."
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	Sender Sender
	Text   string
	// Placeholder marks the synthetic "Thinking…" entry in View.
	Placeholder bool
}

// ChatState is idle or awaiting-reply.
type ChatState int

const (
	ChatIdle ChatState = iota
	ChatAwaitingReply
)

func (s ChatState) String() string {
	if s == ChatAwaitingReply {
		return "awaiting-reply"
	}
	return "idle"
}

// ChatSession is the support chat widget. Submissions may overlap; each one
// ends in exactly one bot message.
type ChatSession struct {
	transport Transport
	logger    *slog.Logger

	mu       sync.Mutex
	messages []Message
	pending  int
}

func NewChatSession(t Transport, logger *slog.Logger) *ChatSession {
	return &ChatSession{transport: t, logger: logger}
}

type chatRequest struct {
	Message string           `json:"message"`
	Context []model.ChatTurn `json:"context"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Submit sends text and blocks until the bot message is appended, which it
// also returns. Blank input is ignored and reports false.
func (s *ChatSession) Submit(ctx context.Context, text string) (Message, bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}

	s.mu.Lock()
	history := toTurns(s.messages)
	s.messages = append(s.messages, Message{Sender: SenderUser, Text: text})
	s.pending++
	s.mu.Unlock()

	var resp chatResponse
	reply := Message{Sender: SenderBot, Text: FallbackReply}
	if _, err := s.transport.Do(ctx, http.MethodPost, "/api/gemini", chatRequest{Message: text, Context: history}, &resp); err != nil {
		s.logger.Error("chat request failed", slog.String("error", err.Error()))
	} else {
		reply.Text = resp.Response
	}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.pending--
	s.mu.Unlock()
	return reply, true
}

func toTurns(messages []Message) []model.ChatTurn {
	return lo.Map(messages, func(m Message, _ int) model.ChatTurn {
		role := model.RoleModel
		if m.Sender == SenderUser {
			role = model.RoleUser
		}
		return model.ChatTurn{Role: role, Parts: []model.Part{{Text: m.Text}}}
	})
}

func (s *ChatSession) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending > 0 {
		return ChatAwaitingReply
	}
	return ChatIdle
}

// Messages returns a copy of the transcript.
func (s *ChatSession) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// View is what the widget renders: the transcript, plus the placeholder
// while any reply is outstanding.
func (s *ChatSession) View() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := slices.Clone(s.messages)
	if s.pending > 0 {
		view = append(view, Message{Sender: SenderBot, Text: ThinkingText, Placeholder: true})
	}
	return view
}
