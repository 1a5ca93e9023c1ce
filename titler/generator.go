package titler

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiaoyuanzhu-com/claude-sessions/config"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
	"github.com/xiaoyuanzhu-com/claude-sessions/vendors"
)

// ErrNoTitle means the model call did not produce a usable title. The entry
// is left untouched and stays eligible for the next run.
var ErrNoTitle = errors.New("no title generated")

// completer is the part of vendors.OpenAIClient the generator needs.
type completer interface {
	Complete(ctx context.Context, opts vendors.CompletionOptions) (*vendors.CompletionResponse, error)
}

// Generator asks a chat completion endpoint for a session title.
type Generator struct {
	client      completer
	maxTokens   int
	temperature float32
}

// NewGenerator creates a generator backed by the OpenAI-compatible endpoint in cfg.
func NewGenerator(cfg config.TitlerConfig) *Generator {
	return newGenerator(vendors.NewOpenAIClient(cfg), cfg)
}

func newGenerator(client completer, cfg config.TitlerConfig) *Generator {
	return &Generator{
		client:      client,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// GenerateTitle makes exactly one completion call for conversationText.
// Every failure wraps ErrNoTitle; callers must not retry within the run.
func (g *Generator) GenerateTitle(ctx context.Context, conversationText string) (string, error) {
	resp, err := g.client.Complete(ctx, vendors.CompletionOptions{
		Prompt:      buildTitlePrompt(conversationText),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		event := log.Warn().Err(err)
		if status := vendors.StatusCode(err); status != 0 {
			event = event.Int("status", status)
		}
		event.Msg("title request failed")
		return "", fmt.Errorf("%w: %w", ErrNoTitle, err)
	}

	title := cleanTitle(resp.Content)
	if title == "" {
		// Some local reasoning models answer in reasoning_content
		title = cleanTitle(resp.ReasoningContent)
	}
	if title == "" {
		log.Warn().Str("finishReason", resp.FinishReason).Msg("model returned an empty title")
		return "", ErrNoTitle
	}

	return title, nil
}
