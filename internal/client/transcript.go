// Package client implements the conversation side of the relay: the
// transcript a user builds up and the round trips that extend it.
package client

import "chatrelay/internal/models"

const (
	// Greeting seeds every new transcript.
	Greeting = "Hello! How can I help you today?"
	// Fallback is appended when a round trip fails for any reason.
	Fallback = "Sorry, I couldn't get a response. Please try again."
)

// Transcript is an ordered conversation history. Values are never modified
// in place; Append returns a new Transcript.
type Transcript []models.Message

// NewTranscript returns a transcript holding only the greeting.
func NewTranscript() Transcript {
	return Transcript{{Role: models.RoleAssistant, Content: Greeting}}
}

// Append returns a copy of t with msg added at the end.
func (t Transcript) Append(msg models.Message) Transcript {
	out := make(Transcript, len(t), len(t)+1)
	copy(out, t)
	return append(out, msg)
}

// Messages returns a copy of the transcript as a plain message slice.
func (t Transcript) Messages() []models.Message {
	out := make([]models.Message, len(t))
	copy(out, t)
	return out
}

// Last returns the most recent message.
func (t Transcript) Last() (models.Message, bool) {
	if len(t) == 0 {
		return models.Message{}, false
	}
	return t[len(t)-1], true
}
