package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

// ProviderError is a provider failure normalized across SDKs.
// StatusCode is zero when the failure happened before an HTTP status was known.
// Message is only ever taken from the provider's own error payload and is
// empty otherwise.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error [%d]: %s", e.Provider, e.StatusCode, e.detail())
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.detail())
}

func (e *ProviderError) detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown failure"
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the provider rejected the credential.
func (e *ProviderError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsRateLimit reports whether the provider throttled the request.
func (e *ProviderError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// classifyError wraps err into a ProviderError, taking the HTTP status and
// the provider message from the SDK's typed error.
func classifyError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	out := &ProviderError{Provider: provider, Err: err}

	var oaiAPIErr *openai.APIError
	var oaiReqErr *openai.RequestError
	var anthErr *anthropic.Error
	var genaiErr genai.APIError
	var genaiErrPtr *genai.APIError
	switch {
	case errors.As(err, &oaiAPIErr):
		out.StatusCode = oaiAPIErr.HTTPStatusCode
		out.Message = oaiAPIErr.Message
	case errors.As(err, &oaiReqErr):
		// the body was not an OpenAI error payload, e.g. a gateway HTML page
		out.StatusCode = oaiReqErr.HTTPStatusCode
	case errors.As(err, &anthErr):
		out.StatusCode = anthErr.StatusCode
		out.Message = gjson.Get(anthErr.RawJSON(), "error.message").String()
	case errors.As(err, &genaiErr):
		out.StatusCode = geminiStatus(genaiErr)
		out.Message = genaiErr.Message
	case errors.As(err, &genaiErrPtr):
		out.StatusCode = geminiStatus(*genaiErrPtr)
		out.Message = genaiErrPtr.Message
	}
	out.Message = strings.TrimSpace(out.Message)
	return out
}

// geminiStatus maps Gemini credential failures to 401. The Gemini API answers
// an invalid key with 400 INVALID_ARGUMENT and reason API_KEY_INVALID.
func geminiStatus(apiErr genai.APIError) int {
	switch {
	case apiErr.Code == http.StatusUnauthorized,
		apiErr.Status == "UNAUTHENTICATED",
		apiErr.Code == http.StatusForbidden && apiErr.Status == "PERMISSION_DENIED",
		strings.Contains(strings.ToLower(apiErr.Message), "api key not valid"):
		return http.StatusUnauthorized
	}
	for _, detail := range apiErr.Details {
		if reason, _ := detail["reason"].(string); reason == "API_KEY_INVALID" {
			return http.StatusUnauthorized
		}
	}
	return apiErr.Code
}
