package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"chatrelay/internal/models"
)

// OpenAICompleter implements Completer on the OpenAI chat completions API.
type OpenAICompleter struct {
	client *openai.Client
}

// NewOpenAICompleter creates a completer. An empty baseURL targets api.openai.com;
// any OpenAI-compatible endpoint can be used instead.
func NewOpenAICompleter(apiKey, baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg)}
}

// GenerateCompletion sends the messages, in order, as one chat completion request.
func (oc *OpenAICompleter) GenerateCompletion(ctx context.Context, messages []models.Message, params Params) (*Completion, error) {
	omsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		omsgs = append(omsgs, openai.ChatCompletionMessage{
			Role:    openAIRole(msg.Role),
			Content: msg.Content,
		})
	}
	req := openai.ChatCompletionRequest{
		Model:       params.Model,
		Messages:    omsgs,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	resp, err := oc.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyError("openai", err)
	}

	completion := &Completion{Candidates: make([]models.Message, 0, len(resp.Choices))}
	for _, choice := range resp.Choices {
		role := models.Role(choice.Message.Role)
		if role == "" {
			role = models.RoleAssistant
		}
		completion.Candidates = append(completion.Candidates, models.Message{
			Role:    role,
			Content: choice.Message.Content,
		})
	}
	return completion, nil
}

func openAIRole(role models.Role) string {
	switch role {
	case models.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}

var _ Completer = (*OpenAICompleter)(nil)
