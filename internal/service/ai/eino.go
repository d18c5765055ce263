package ai

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"chatrelay/internal/config"
	"chatrelay/internal/models"
)

// EinoCompleter adapts an eino chat model to the Completer interface.
type EinoCompleter struct {
	provider  string
	chatModel model.BaseChatModel
}

// NewEinoCompleter wraps an already constructed eino chat model.
func NewEinoCompleter(provider string, chatModel model.BaseChatModel) *EinoCompleter {
	return &EinoCompleter{provider: provider, chatModel: chatModel}
}

// NewClaudeCompleter builds a Claude completer through eino-ext.
func NewClaudeCompleter(ctx context.Context, cfg config.ProviderConfig) (*EinoCompleter, error) {
	params := DefaultParams("claude", cfg.Model)
	var baseURLPtr *string
	if cfg.BaseURL != "" {
		baseURLPtr = &cfg.BaseURL
	}
	chatModel, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    cfg.APIKey,
		Model:     params.Model,
		BaseURL:   baseURLPtr,
		MaxTokens: params.MaxTokens,
		HTTPClient: &http.Client{
			Transport: noRetryTransport{next: http.DefaultTransport},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init claude model: %w", err)
	}
	return NewEinoCompleter("claude", chatModel), nil
}

// noRetryTransport stops the Anthropic SDK from replaying a request. The SDK
// honors x-should-retry on responses; a failed round trip is reported as a
// 502 marked the same way so connection errors are not replayed either.
type noRetryTransport struct {
	next http.RoundTripper
}

const errorBody = `{"type":"error","error":{"type":"api_error","message":""}}`

func (t noRetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.next.RoundTrip(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, err
		}
		log.Printf("claude: request failed: %v", err)
		res = &http.Response{
			Status:     "502 Bad Gateway",
			StatusCode: http.StatusBadGateway,
			Proto:      req.Proto,
			ProtoMajor: req.ProtoMajor,
			ProtoMinor: req.ProtoMinor,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(errorBody)),
			Request:    req,
		}
	}
	res.Header.Set("X-Should-Retry", "false")
	return res, nil
}

// NewGeminiCompleter builds a Gemini completer through eino-ext and genai.
func NewGeminiCompleter(ctx context.Context, cfg config.ProviderConfig) (*EinoCompleter, error) {
	params := DefaultParams("gemini", cfg.Model)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  params.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini model: %w", err)
	}
	return NewEinoCompleter("gemini", chatModel), nil
}

// GenerateCompletion converts the messages to eino schema messages, preserving order,
// and runs a single non-streaming generation.
func (e *EinoCompleter) GenerateCompletion(ctx context.Context, messages []models.Message, params Params) (*Completion, error) {
	opts := []model.Option{
		model.WithTemperature(params.Temperature),
		model.WithMaxTokens(params.MaxTokens),
	}
	if params.Model != "" {
		opts = append(opts, model.WithModel(params.Model))
	}
	out, err := e.chatModel.Generate(ctx, convertMessages(messages), opts...)
	if err != nil {
		return nil, classifyError(e.provider, err)
	}
	if out == nil {
		return &Completion{}, nil
	}
	return &Completion{Candidates: []models.Message{{
		Role:    models.RoleAssistant,
		Content: out.Content,
	}}}, nil
}

func convertMessages(history []models.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		var role schema.RoleType
		switch msg.Role {
		case models.RoleUser:
			role = schema.User
		case models.RoleAssistant:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}

		messages = append(messages, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	return messages
}

var _ Completer = (*EinoCompleter)(nil)
