package client

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"chatrelay/internal/models"
)

var (
	ErrBlankInput = errors.New("input is blank")
	ErrBusy       = errors.New("a request is already in flight")
)

// Relay sends a transcript snapshot and returns the assistant reply.
type Relay interface {
	Send(ctx context.Context, messages []models.Message) (string, error)
}

// Conversation owns a transcript and allows one outstanding round trip at a time.
type Conversation struct {
	relay Relay

	mu         sync.Mutex
	transcript Transcript
	busy       bool
	generation uint64

	// OnBusyChange, when set, is called with true when a round trip starts
	// and with false when it settles, whatever the outcome.
	OnBusyChange func(busy bool)
	// OnError, when set, receives the cause of a failed round trip.
	OnError func(err error)
}

// NewConversation returns a conversation seeded with the greeting.
func NewConversation(relay Relay) *Conversation {
	return &Conversation{
		relay:      relay,
		transcript: NewTranscript(),
	}
}

// Transcript returns the current transcript.
func (c *Conversation) Transcript() Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// Busy reports whether a round trip is outstanding.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Submit appends input as a user message, sends the whole transcript and
// appends the reply, or Fallback if the round trip fails. Relay failures are
// logged and reported to OnError, not returned.
func (c *Conversation) Submit(ctx context.Context, input string) (Transcript, error) {
	if strings.TrimSpace(input) == "" {
		return c.Transcript(), ErrBlankInput
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return c.Transcript(), ErrBusy
	}
	c.transcript = c.transcript.Append(models.Message{Role: models.RoleUser, Content: input})
	snapshot := c.transcript.Messages()
	generation := c.generation
	c.busy = true
	c.mu.Unlock()
	c.notifyBusy(true)

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		c.notifyBusy(false)
	}()

	reply, err := c.relay.Send(ctx, snapshot)
	msg := models.Message{Role: models.RoleAssistant, Content: reply}
	if err != nil {
		log.Printf("conversation: relay request failed: %v", err)
		if c.OnError != nil {
			c.OnError(err)
		}
		msg.Content = Fallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// a Clear during the round trip discards its reply
	if c.generation == generation {
		c.transcript = c.transcript.Append(msg)
	}
	return c.transcript, nil
}

// Clear resets the transcript to the greeting.
func (c *Conversation) Clear() Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.transcript = NewTranscript()
	return c.transcript
}

func (c *Conversation) notifyBusy(busy bool) {
	if c.OnBusyChange != nil {
		c.OnBusyChange(busy)
	}
}
