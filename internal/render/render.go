// Package render formats conversation messages for terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"chatrelay/internal/models"
)

// Options configures the renderer.
type Options struct {
	// Width is the word wrap column (default: 80)
	Width int
	// Style is a glamour standard style name ("dark", "light", "notty") or a JSON style path
	Style string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{Width: 80, Style: "dark"}
}

// Renderer turns messages into labelled terminal text. Assistant replies are
// rendered as markdown. Not safe for concurrent use.
type Renderer struct {
	md        *glamour.TermRenderer
	user      lipgloss.Style
	assistant lipgloss.Style
	system    lipgloss.Style
}

// New creates a renderer.
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	if opts.Style == "" {
		opts.Style = DefaultOptions().Style
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Renderer{
		md:        md,
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		system:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
	}, nil
}

// Label returns the styled speaker label for a role.
func (r *Renderer) Label(role models.Role) string {
	switch role {
	case models.RoleUser:
		return r.user.Render("You")
	case models.RoleSystem:
		return r.system.Render("System")
	default:
		return r.assistant.Render("Assistant")
	}
}

// Message renders one message with its label.
func (r *Renderer) Message(msg models.Message) string {
	body := msg.Content
	if msg.Role == models.RoleAssistant {
		if out, err := r.md.Render(msg.Content); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	return r.Label(msg.Role) + "\n" + body
}
