// Package gemini implements assistant.Assistant on Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"google.golang.org/genai"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/assistant"
	"github.com/sakif/skillverse/internal/model"
)

// Config holds the Gemini settings.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string
	// Model is the model name, e.g. "gemini-1.5-flash".
	Model string
	// MaxTurns caps the replayed transcript; 0 replays all of it.
	MaxTurns int
	// Timeout bounds a single generation call.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Model:   "gemini-1.5-flash",
		Timeout: 30 * time.Second,
	}
}

// generator is the slice of *genai.Models we call; tests swap in a fake.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Assistant struct {
	models generator
	config Config
	logger *slog.Logger
}

var _ assistant.Assistant = (*Assistant)(nil)

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Assistant, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return newWithGenerator(client.Models, cfg, logger), nil
}

func newWithGenerator(g generator, cfg Config, logger *slog.Logger) *Assistant {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Assistant{models: g, config: cfg, logger: logger}
}

// Reply sends the transcript followed by the new message and returns the
// reply text. Failures of the API come back as apperror.ErrUpstream.
func (a *Assistant) Reply(ctx context.Context, req assistant.ChatRequest) (*assistant.ChatResult, error) {
	start := time.Now()

	history := assistant.Truncate(req.Context, a.config.MaxTurns)
	contents := lo.Map(history, func(turn model.ChatTurn, _ int) *genai.Content {
		return toContent(turn)
	})
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	resp, err := a.models.GenerateContent(ctx, a.config.Model, contents, nil)
	if err != nil {
		return nil, apperror.Upstream("Gemini", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, apperror.Upstream("Gemini", errors.New("empty response"))
	}

	a.logger.Debug("gemini reply generated",
		slog.String("model", a.config.Model),
		slog.Int("turns", len(contents)),
		slog.Duration("duration", time.Since(start)),
	)

	return &assistant.ChatResult{
		Text:     text,
		Turns:    len(contents),
		Duration: time.Since(start),
	}, nil
}

// toContent maps a transcript entry onto Gemini's role vocabulary. Anything
// that is not the model speaking is sent as the user.
func toContent(turn model.ChatTurn) *genai.Content {
	var role genai.Role = genai.RoleUser
	if turn.Role == model.RoleModel {
		role = genai.RoleModel
	}
	parts := lo.FilterMap(turn.Parts, func(p model.Part, _ int) (*genai.Part, bool) {
		return genai.NewPartFromText(p.Text), p.Text != ""
	})
	return genai.NewContentFromParts(parts, role)
}
