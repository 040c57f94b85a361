package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// ChoiceOption is one answer of a multiple-choice question.
type ChoiceOption struct {
	ID    string
	Label string
}

// MultiChoice renders numbered multiple-choice options. Options are picked
// by their 1-based digit; the play screen maps digits onto the session.
type MultiChoice struct {
	Prompt   string
	Options  []ChoiceOption
	States   map[string]session.Highlight
	Answered bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(prompt string, options []ChoiceOption) MultiChoice {
	return MultiChoice{
		Prompt:  prompt,
		Options: options,
	}
}

// View renders the prompt and the option list.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Prompt))
		b.WriteString("\n\n")
	}

	for i, opt := range m.Options {
		line := fmt.Sprintf("  %d)  %s", i+1, opt.Label)

		state := m.States[opt.ID]
		switch {
		case state == session.HighlightCorrect && m.Answered:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case state == session.HighlightWrong && m.Answered:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case m.Answered:
			b.WriteString(theme.Disabled.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
