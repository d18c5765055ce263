package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"chatrelay/internal/models"
)

const relayPath = "/api/openai"

// StatusError is returned for any non-2xx relay response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.StatusCode, e.Message)
}

// HTTPRelay calls a relay endpoint over HTTP.
type HTTPRelay struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRelay creates a relay caller for the server at baseURL.
// A nil httpClient uses http.DefaultClient.
func NewHTTPRelay(baseURL string, httpClient *http.Client) *HTTPRelay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRelay{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// Send posts the messages and returns the "response" field of the reply.
func (r *HTTPRelay) Send(ctx context.Context, messages []models.Message) (string, error) {
	payload, err := json.Marshal(map[string]any{"messages": messages})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+relayPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := r.do(req)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", &StatusError{StatusCode: status, Message: errorMessage(body, status)}
	}
	reply := gjson.GetBytes(body, "response")
	if reply.Type != gjson.String {
		return "", fmt.Errorf("relay reply has no response field")
	}
	if strings.TrimSpace(reply.String()) == "" {
		return "", fmt.Errorf("relay reply has an empty response")
	}
	return reply.String(), nil
}

// Probe issues the diagnostic GET and returns the raw descriptor fields.
func (r *HTTPRelay) Probe(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+relayPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	body, status, err := r.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{StatusCode: status, Message: errorMessage(body, status)}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("probe reply is not JSON")
	}
	out := make(map[string]string)
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out, nil
}

func (r *HTTPRelay) do(req *http.Request) ([]byte, int, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// errorMessage accepts both JSON {"error": "..."} and plain text error bodies.
func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

var _ Relay = (*HTTPRelay)(nil)
