package play

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/quiz"
	sess "github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return centered(width, theme.Incorrect, "\n\nError: "+s.errMsg)
	case !s.loaded:
		return centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading quiz...")
	case s.empty():
		return centered(width, lipgloss.NewStyle().Foreground(theme.Accent),
			"\n\nCannot generate questions for this quiz.\n\n"+
				"It needs regions with the configured ID and label properties,\n"+
				"and image quizzes need an image for each region.")
	case s.state == nil || s.state.Done():
		return ""
	}

	leftWidth := width * 55 / 100
	rightWidth := width - leftWidth - 2

	left := s.renderQuestion(leftWidth, height)
	right := s.renderMap(rightWidth, height)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(leftWidth).Render(left),
		"  ",
		lipgloss.NewStyle().Width(rightWidth).Render(right),
	)
}

// renderQuestion renders the progress bar, the prompt and the answer area.
func (s *PlayScreen) renderQuestion(width, height int) string {
	q, _ := s.state.Current()
	states := s.state.RegionStates()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(s.state.Index, len(s.state.Questions), width-2).View())
	b.WriteString("\n\n")

	switch q := q.(type) {
	case quiz.MapClick:
		b.WriteString(s.renderMapClickPrompt(q, width))
		b.WriteString("\n\n")
		b.WriteString(s.regions.View(width, height-12))
	case quiz.MultipleChoice:
		options := make([]components.ChoiceOption, 0, len(q.Options))
		for _, id := range q.Options {
			options = append(options, components.ChoiceOption{ID: id, Label: s.round.Label(id)})
		}
		mc := components.NewMultiChoice("Which region is highlighted on the map?", options)
		mc.States = states
		mc.Answered = s.state.Phase() == sess.PhaseAnswered
		b.WriteString(mc.View())
	}

	b.WriteString("\n")
	b.WriteString(s.renderFeedback(q))
	return b.String()
}

func (s *PlayScreen) renderMapClickPrompt(q quiz.MapClick, width int) string {
	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if s.round.Quiz.Type.RequiresImages() {
		img := s.round.Image(q.Target())
		return prompt.Render("Which region does this image belong to?") + "\n" +
			lipgloss.NewStyle().Foreground(theme.Secondary).MaxWidth(width).Render(imageRef(img))
	}
	return prompt.Render("Find: ") +
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(s.round.Label(q.Target()))
}

// renderFeedback shows the verdict once the current question is answered.
func (s *PlayScreen) renderFeedback(q quiz.Question) string {
	switch s.state.Answer.Status {
	case sess.AnswerCorrect:
		return theme.Correct.Render("✓ Correct!")
	case sess.AnswerWrong:
		msg := "✗ That was " + s.round.Label(s.state.Answer.ChosenID) +
			". The answer is " + s.round.Label(q.Target()) + "."
		return theme.Incorrect.Render(msg)
	}
	return ""
}

// renderMap draws the region centers. The focused region is the one under
// the list cursor while a map-click question is open.
func (s *PlayScreen) renderMap(width, height int) string {
	focus := ""
	if !s.isMultipleChoice() && !s.state.Disabled() {
		focus, _ = s.regions.Selected()
	}
	m := components.MiniMap{
		Centers: s.round.Centers,
		States:  s.state.RegionStates(),
		Focus:   focus,
	}
	view := m.View(width-4, max(height-4, 2))
	if view == "" {
		view = theme.Hint.Render("no geometry to draw")
	}
	card := components.Card{
		Title:  "MAP",
		Legend: components.HighlightLegend(m.States),
		Accent: components.AnswerAccent(s.state.Answer.Status),
	}
	return card.Render(view, width)
}

// imageRef shortens data URLs, which are too long to print.
func imageRef(u string) string {
	if u == "" {
		return "(no image)"
	}
	if strings.HasPrefix(u, "data:") {
		if i := strings.IndexByte(u, ','); i > 0 {
			return u[:i] + ",…"
		}
	}
	return u
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
