// Package assistant defines the contract for the generative chat backend.
package assistant

import (
	"context"
	"time"

	"github.com/sakif/skillverse/internal/model"
)

// ChatRequest is a new user message plus the transcript that preceded it.
type ChatRequest struct {
	Message string           `json:"message"`
	Context []model.ChatTurn `json:"context"`
}

// ChatResult is the model's reply.
type ChatResult struct {
	Text     string        `json:"text"`
	Turns    int           `json:"turns"`
	Duration time.Duration `json:"duration"`
}

// Assistant answers chat messages. Implementations must be safe for
// concurrent use.
type Assistant interface {
	Reply(ctx context.Context, req ChatRequest) (*ChatResult, error)
}

// Truncate keeps the most recent maxTurns entries of history. maxTurns <= 0
// keeps everything.
func Truncate(history []model.ChatTurn, maxTurns int) []model.ChatTurn {
	if maxTurns <= 0 || len(history) <= maxTurns {
		return history
	}
	return history[len(history)-maxTurns:]
}
