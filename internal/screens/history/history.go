package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/layout"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// maxSessions bounds how many past sessions are listed.
const maxSessions = 50

type historyLoadedMsg struct {
	Sessions []store.PlaySummary
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.PlayEvent
	Err       error
}

// HistoryScreen displays past play sessions. Enter expands a session into
// its individual answers.
type HistoryScreen struct {
	eventRepo store.EventRepo
	quizName  func(id string) string
	sessions  []store.PlaySummary
	answers   map[string][]store.PlayEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. quizName resolves quiz IDs for display
// and may be nil.
func New(eventRepo store.EventRepo, quizName func(id string) string) *HistoryScreen {
	if quizName == nil {
		quizName = func(id string) string { return id }
	}
	return &HistoryScreen{
		eventRepo: eventRepo,
		quizName:  quizName,
		answers:   make(map[string][]store.PlayEvent),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		sessions, err := repo.QueryPlaySummaries(context.Background(), maxSessions)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QueryPlayEvents(context.Background(), store.QueryOpts{SessionID: sessionID})
		if err != nil {
			return answersLoadedMsg{SessionID: sessionID, Err: err}
		}
		answers := make([]store.PlayEvent, 0, len(events))
		for _, e := range events {
			if e.Action == store.PlayAnswer {
				answers = append(answers, e)
			}
		}
		return answersLoadedMsg{SessionID: sessionID, Answers: answers}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].SessionID
			if _, ok := s.answers[id]; !ok && s.expanded[s.selected] {
				return s, s.loadAnswers(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes played yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sum := range s.sessions {
		dateStr := sum.StartedAt.Local().Format("Jan 02, 2006 15:04")

		status := fmt.Sprintf("%d/%d", sum.Score, sum.Total)
		if !sum.Finished() {
			status = fmt.Sprintf("%d/%d (stopped after %d)", sum.Score, sum.Total, sum.Answered)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %s", prefix, dateStr, s.quizName(sum.QuizID), status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(sum.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(sessionID string, width int) string {
	answers, ok := s.answers[sessionID]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading answers...")) + "\n"
	}
	if len(answers) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No answers recorded")) + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		var line string
		if a.Correct {
			line = theme.Correct.Render(fmt.Sprintf("    %d. ✓ %s", a.QuestionIndex+1, a.TargetID))
		} else {
			line = theme.Incorrect.Render(fmt.Sprintf("    %d. ✗ %s (picked %s)", a.QuestionIndex+1, a.TargetID, a.ChosenID))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	return b.String()
}
