package render

import (
	"strings"
	"testing"

	"chatrelay/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Options{Width: 60, Style: "notty"})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestMessageLabels(t *testing.T) {
	r := newTestRenderer(t)
	tests := []struct {
		role  models.Role
		label string
	}{
		{models.RoleUser, "You"},
		{models.RoleAssistant, "Assistant"},
		{models.RoleSystem, "System"},
	}
	for _, tc := range tests {
		out := r.Message(models.Message{Role: tc.role, Content: "hello world"})
		if !strings.Contains(out, tc.label) {
			t.Errorf("%s: expected label %q in %q", tc.role, tc.label, out)
		}
		if !strings.Contains(out, "hello world") {
			t.Errorf("%s: expected content in %q", tc.role, out)
		}
	}
}

func TestAssistantWordWrap(t *testing.T) {
	r := newTestRenderer(t)
	long := strings.Repeat("lorem ipsum ", 20)
	out := r.Message(models.Message{Role: models.RoleAssistant, Content: long})
	body := strings.SplitN(out, "\n", 2)[1]
	lines := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	if lines < 3 {
		t.Errorf("assistant reply should be word wrapped at 60 columns, got %q", body)
	}
	if got := strings.Count(out, "lorem"); got != 20 {
		t.Errorf("expected every word to survive wrapping, got %d of 20", got)
	}
}

func TestUserContentIsVerbatim(t *testing.T) {
	r := newTestRenderer(t)
	content := strings.Repeat("word ", 30)
	out := r.Message(models.Message{Role: models.RoleUser, Content: content})
	if !strings.Contains(out, content) {
		t.Errorf("user content should not be rendered as markdown: %q", out)
	}
}
