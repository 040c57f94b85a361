package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/layout"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// SummaryScreen displays the result of a finished session.
type SummaryScreen struct {
	summary  *session.Summary
	quizName string
	again    func() screen.Screen
	selected int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.BackHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. again builds a fresh play screen for
// the same quiz; when nil the "play again" button is hidden.
func New(summary *session.Summary, quizName string, again func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, quizName: quizName, again: again}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Select"}}
	if s.again != nil {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Choose"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *SummaryScreen) buttons() []string {
	if s.again == nil {
		return []string{"HOME"}
	}
	return []string{"PLAY AGAIN", "HOME"}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if s.selected > 0 {
			s.selected--
		}
	case "right", "l", "tab":
		if s.selected < len(s.buttons())-1 {
			s.selected++
		}
	case "enter":
		if s.buttons()[s.selected] == "PLAY AGAIN" {
			next := s.again()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "esc":
		return s, s.Back()
	}
	return s, nil
}

// Back returns to the home screen.
func (s *SummaryScreen) Back() tea.Cmd {
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(cw, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(s.quizName)))
	b.WriteString("\n\n")

	score := fmt.Sprintf("%d / %d", sum.Score, sum.Total)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(score)))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(verdict(sum))))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Answered: %d    Accuracy: %.0f%%", sum.Answered, sum.Accuracy*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(stats)))
	b.WriteString("\n")

	if sum.Guessed > 0 || sum.Missed > 0 {
		memory := theme.Correct.Render(fmt.Sprintf("%d guessed", sum.Guessed)) + "   " +
			theme.Incorrect.Render(fmt.Sprintf("%d missed", sum.Missed))
		b.WriteString(center(memory))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	labels := s.buttons()
	buttons := make([]string, 0, len(labels))
	for i, label := range labels {
		buttons = append(buttons, components.ArcadeButton(label, i == s.selected, 16))
	}
	b.WriteString(center(lipgloss.JoinHorizontal(lipgloss.Top, buttons...)))

	return components.CabinetFrame(components.Card{}.Render(b.String(), cw), width, height)
}

// verdict is a one-line reaction to the score.
func verdict(sum *session.Summary) string {
	if sum.Total == 0 {
		return ""
	}
	ratio := float64(sum.Score) / float64(sum.Total)
	switch {
	case ratio == 1:
		return "Perfect run!"
	case ratio >= 0.8:
		return "Great geography!"
	case ratio >= 0.5:
		return "Not bad. Try again?"
	default:
		return "Keep exploring."
	}
}
