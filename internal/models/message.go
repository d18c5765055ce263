package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

// Validate checks that the message has a known role and non-empty content.
func (m Message) Validate() error {
	if m.Role == "" {
		return errors.New("role is required")
	}
	if !m.Role.Valid() {
		return fmt.Errorf("role %q must be one of: user assistant system", m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}

// ValidateSequence checks every message of a non-empty sequence.
func ValidateSequence(messages []Message) error {
	if len(messages) == 0 {
		return errors.New("messages must not be empty")
	}
	for i, msg := range messages {
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("messages[%d]: %w", i, err)
		}
	}
	return nil
}
