package ai

import (
	"context"
	"fmt"

	"chatrelay/internal/config"
	"chatrelay/internal/models"
)

// Default generation parameters. They are fixed per process and never taken from a request.
const (
	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultClaudeModel = "claude-3-5-haiku-latest"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 500
)

// Params are the generation parameters sent with every completion request.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Completion holds the candidate replies returned by a provider. Only the
// first candidate is used by callers.
type Completion struct {
	Candidates []models.Message
}

// First returns the first candidate, if any.
func (c *Completion) First() (models.Message, bool) {
	if c == nil || len(c.Candidates) == 0 {
		return models.Message{}, false
	}
	return c.Candidates[0], true
}

// Completer generates the next assistant message for a conversation.
// Implementations must forward messages in the given order.
type Completer interface {
	GenerateCompletion(ctx context.Context, messages []models.Message, params Params) (*Completion, error)
}

// DefaultParams returns the fixed generation parameters for a provider.
// A model configured for the provider replaces the default identifier.
func DefaultParams(provider, model string) Params {
	params := Params{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	switch provider {
	case "claude":
		params.Model = DefaultClaudeModel
	case "gemini":
		params.Model = DefaultGeminiModel
	default:
		params.Model = DefaultOpenAIModel
	}
	if model != "" {
		params.Model = model
	}
	return params
}

// NewCompleter builds the completer for the configured provider.
func NewCompleter(ctx context.Context, cfg config.ProviderConfig) (Completer, error) {
	switch cfg.Name {
	case "openai":
		return NewOpenAICompleter(cfg.APIKey, cfg.BaseURL), nil
	case "claude":
		return NewClaudeCompleter(ctx, cfg)
	case "gemini":
		return NewGeminiCompleter(ctx, cfg)
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Name)
	}
}
