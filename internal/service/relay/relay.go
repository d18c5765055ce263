package relay

import (
	"context"
	"errors"
	"log"
	"strings"

	"chatrelay/internal/models"
	"chatrelay/internal/service/ai"
)

const (
	// Placeholder replaces a reply that carries no usable text.
	Placeholder = "No response generated."
	// GenericUpstreamMessage is used when the provider gave no message of its own.
	GenericUpstreamMessage = "Failed to get response from AI"

	unauthorizedMessage = "the AI provider rejected the configured API credential"
	rateLimitedMessage  = "the AI provider rate limit was exceeded, please retry later"
)

// Descriptor is returned by the diagnostic probe.
type Descriptor struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Usage   string `json:"usage"`
}

// Service relays one conversation snapshot to the completion provider.
// It keeps no state between calls and is safe for concurrent use.
type Service struct {
	completer ai.Completer
	params    ai.Params
	path      string
}

// NewService creates a relay. params are fixed for the lifetime of the service.
func NewService(completer ai.Completer, params ai.Params, path string) *Service {
	return &Service{
		completer: completer,
		params:    params,
		path:      path,
	}
}

// Params returns the generation parameters sent with every request.
func (s *Service) Params() ai.Params {
	return s.params
}

// Handle forwards messages unchanged and in order, and returns the first
// candidate's text. A reply without text yields Placeholder. Failures are
// always *Error values.
func (s *Service) Handle(ctx context.Context, messages []models.Message) (string, error) {
	if err := models.ValidateSequence(messages); err != nil {
		return "", InvalidRequest("%v", err)
	}

	snapshot := make([]models.Message, len(messages))
	copy(snapshot, messages)

	completion, err := s.completer.GenerateCompletion(ctx, snapshot, s.params)
	if err != nil {
		return "", mapProviderError(err)
	}

	first, ok := completion.First()
	if !ok || strings.TrimSpace(first.Content) == "" {
		log.Printf("relay: provider returned no usable content, using placeholder")
		return Placeholder, nil
	}
	return first.Content, nil
}

// Probe returns the fixed liveness descriptor.
func (s *Service) Probe() Descriptor {
	return Descriptor{
		Status:  "ok",
		Message: "service is running",
		Usage:   `POST ` + s.path + ` with {"messages":[{"role":"user","content":"Hello"}]}`,
	}
}

func mapProviderError(err error) *Error {
	var perr *ai.ProviderError
	if !errors.As(err, &perr) {
		return &Error{Kind: KindUpstream, Message: GenericUpstreamMessage, Err: err}
	}
	switch {
	case perr.IsAuth():
		return &Error{Kind: KindUnauthorized, Message: unauthorizedMessage, Err: err}
	case perr.IsRateLimit():
		return &Error{Kind: KindRateLimited, Message: rateLimitedMessage, Err: err}
	}
	msg := strings.TrimSpace(perr.Message)
	// transport failures carry our own dial/TLS text, not a provider message
	if perr.StatusCode == 0 || msg == "" {
		msg = GenericUpstreamMessage
	}
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}
