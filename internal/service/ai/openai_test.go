package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	openai "github.com/sashabaranov/go-openai"

	"chatrelay/internal/models"
)

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) *OpenAICompleter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAICompleter("sk-test", srv.URL+"/v1")
}

func TestOpenAICompleterForwardsRequest(t *testing.T) {
	var got openai.ChatCompletionRequest
	var authHeader string
	completer := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-3.5-turbo",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Hi Bob"}, "finish_reason": "stop"},
				{"index": 1, "message": {"role": "assistant", "content": "second"}, "finish_reason": "stop"}
			]
		}`))
	})

	messages := []models.Message{
		{Role: models.RoleSystem, Content: "be brief"},
		{Role: models.RoleUser, Content: "my name is Bob"},
		{Role: models.RoleAssistant, Content: "noted"},
		{Role: models.RoleUser, Content: "what is my name?"},
	}
	completion, err := completer.GenerateCompletion(context.Background(), messages, DefaultParams("openai", ""))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if authHeader != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", authHeader)
	}
	if got.Model != DefaultOpenAIModel || got.Temperature != DefaultTemperature || got.MaxTokens != DefaultMaxTokens {
		t.Errorf("unexpected generation params: model=%s temp=%v max=%d", got.Model, got.Temperature, got.MaxTokens)
	}
	var sent []models.Message
	for _, m := range got.Messages {
		sent = append(sent, models.Message{Role: models.Role(m.Role), Content: m.Content})
	}
	if diff := cmp.Diff(messages, sent); diff != "" {
		t.Errorf("forwarded messages mismatch (-want +got):\n%s", diff)
	}

	first, ok := completion.First()
	if !ok || first.Content != "Hi Bob" || first.Role != models.RoleAssistant {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if len(completion.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(completion.Candidates))
	}
}

func TestOpenAICompleterErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantStatus  int
		wantMsg     string
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Incorrect API key provided",
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "Rate limit reached",
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"error":{"message":"The server had an error","type":"server_error"}}`,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "The server had an error",
		},
		{
			name:        "gateway html page",
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        "<html><head><title>502 Bad Gateway</title></head><body><h1>502 Bad Gateway</h1></body></html>",
			wantStatus:  http.StatusBadGateway,
			wantMsg:     "",
		},
		{
			name:       "json without error object",
			status:     http.StatusServiceUnavailable,
			body:       `{"detail":"upstream unavailable at 10.0.0.7"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			completer := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				contentType := tc.contentType
				if contentType == "" {
					contentType = "application/json"
				}
				w.Header().Set("Content-Type", contentType)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := completer.GenerateCompletion(context.Background(),
				[]models.Message{{Role: models.RoleUser, Content: "hi"}}, DefaultParams("openai", ""))
			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProviderError, got %T: %v", err, err)
			}
			if perr.StatusCode != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, perr.StatusCode)
			}
			if perr.Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, perr.Message)
			}
			if calls != 1 {
				t.Errorf("expected exactly one upstream call, got %d", calls)
			}
		})
	}
}

func TestOpenAICompleterEmptyChoices(t *testing.T) {
	completer := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})
	completion, err := completer.GenerateCompletion(context.Background(),
		[]models.Message{{Role: models.RoleUser, Content: "hi"}}, DefaultParams("openai", ""))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, ok := completion.First(); ok {
		t.Fatalf("expected no candidates")
	}
}

func TestDefaultParams(t *testing.T) {
	if p := DefaultParams("claude", ""); p.Model != DefaultClaudeModel || p.MaxTokens != DefaultMaxTokens {
		t.Errorf("unexpected claude params: %+v", p)
	}
	if p := DefaultParams("gemini", "gemini-custom"); p.Model != "gemini-custom" || p.Temperature != DefaultTemperature {
		t.Errorf("unexpected gemini params: %+v", p)
	}
	if p := DefaultParams("openai", ""); p.Model != DefaultOpenAIModel {
		t.Errorf("unexpected openai params: %+v", p)
	}
}
