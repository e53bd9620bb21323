package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/model"
)

func TestChatSession_BlankInputIgnored(t *testing.T) {
	tr := &scriptedTransport{}
	s := NewChatSession(tr, logging.Discard())

	_, ok := s.Submit(context.Background(), "   ")
	assert.False(t, ok)
	assert.Empty(t, s.Messages())
	assert.Empty(t, tr.calls)
}

func TestChatSession_ReplyAndContext(t *testing.T) {
	tr := &scriptedTransport{}
	tr.set("/api/gemini", scripted{status: 200, body: `{"response":"Hello!"}`})
	s := NewChatSession(tr, logging.Discard())

	reply, ok := s.Submit(context.Background(), "hi")
	require.True(t, ok)
	assert.Equal(t, Message{Sender: SenderBot, Text: "Hello!"}, reply)

	_, ok = s.Submit(context.Background(), "how are you?")
	require.True(t, ok)

	require.Len(t, tr.calls, 2)
	first := tr.calls[0].body.(chatRequest)
	assert.Empty(t, first.Context)

	second := tr.calls[1].body.(chatRequest)
	assert.Equal(t, "how are you?", second.Message)
	require.Len(t, second.Context, 2)
	assert.Equal(t, model.RoleUser, second.Context[0].Role)
	assert.Equal(t, "hi", second.Context[0].Parts[0].Text)
	assert.Equal(t, model.RoleModel, second.Context[1].Role)

	assert.Len(t, s.Messages(), 4)
	assert.Equal(t, ChatIdle, s.State())
}

func TestChatSession_FailureAppendsFallback(t *testing.T) {
	tr := &scriptedTransport{}
	tr.set("/api/gemini", scripted{err: errors.New("offline")})
	s := NewChatSession(tr, logging.Discard())

	reply, ok := s.Submit(context.Background(), "hi")
	require.True(t, ok)
	assert.Equal(t, FallbackReply, reply.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[0].Sender)
	assert.Equal(t, FallbackReply, msgs[1].Text)
}

func TestChatSession_ThinkingPlaceholder(t *testing.T) {
	tr := &scriptedTransport{block: make(chan struct{})}
	tr.set("/api/gemini", scripted{status: 200, body: `{"response":"done"}`})
	s := NewChatSession(tr, logging.Discard())

	done := make(chan struct{})
	go func() {
		s.Submit(context.Background(), "hi")
		close(done)
	}()

	require.Eventually(t, func() bool { return s.State() == ChatAwaitingReply }, time.Second, 5*time.Millisecond)
	view := s.View()
	require.Len(t, view, 2)
	assert.Equal(t, "hi", view[0].Text)
	assert.True(t, view[1].Placeholder)
	assert.Equal(t, ThinkingText, view[1].Text)

	close(tr.block)
	<-done
	assert.Equal(t, ChatIdle, s.State())
	assert.Len(t, s.View(), 2)
}

func TestChatSession_ConcurrentSubmissions(t *testing.T) {
	tr := &scriptedTransport{}
	tr.set("/api/gemini", scripted{status: 200, body: `{"response":"ok"}`})
	s := NewChatSession(tr, logging.Discard())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Submit(context.Background(), "question")
		}()
	}
	wg.Wait()

	var users, bots int
	for _, m := range s.Messages() {
		switch m.Sender {
		case SenderUser:
			users++
		case SenderBot:
			bots++
		}
	}
	assert.Equal(t, 5, users)
	assert.Equal(t, 5, bots)
	assert.Equal(t, ChatIdle, s.State())
}
