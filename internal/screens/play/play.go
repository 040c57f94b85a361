package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geoquiz/internal/game"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/screens/summary"
	sess "github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/layout"
)

// Deps are the collaborators a play screen needs.
type Deps struct {
	Loader *game.Loader
	Events store.EventRepo
	Logger *slog.Logger

	// AutoAdvanceDelay overrides sess.AutoAdvanceDelay when non-zero.
	AutoAdvanceDelay time.Duration
}

// PlayScreen runs one quiz session in the terminal. Map-click answers are
// picked from the region list, multiple-choice answers with digit keys.
type PlayScreen struct {
	deps   Deps
	quizID string

	round   *game.Round
	state   *sess.State
	rec     *game.Recorder
	regions components.RegionList
	pending sess.Ticket

	loaded bool
	errMsg string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)
var _ screen.NoticeProvider = (*PlayScreen)(nil)

// New creates a play screen for quizID. The quiz is loaded in Init.
func New(deps Deps, quizID string) *PlayScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &PlayScreen{
		deps:   deps,
		quizID: quizID,
		rec:    game.NewRecorder(deps.Events, deps.Logger),
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	loader := s.deps.Loader
	quizID := s.quizID
	return func() tea.Msg {
		round, err := loader.Load(context.Background(), quizID)
		return roundLoadedMsg{Round: round, Err: err}
	}
}

func (s *PlayScreen) Title() string {
	if s.round != nil {
		return s.round.Quiz.Name
	}
	return "Play"
}

// Status shows the score and question counter in the header.
func (s *PlayScreen) Status() string {
	if s.state == nil || len(s.state.Questions) == 0 {
		return ""
	}
	current := min(s.state.Index+1, len(s.state.Questions))
	return fmt.Sprintf("★ %d   Q %d/%d", s.state.Score, current, len(s.state.Questions))
}

// Notice reports the answer verdict, or how to answer while idle.
func (s *PlayScreen) Notice() layout.Notice {
	if s.state == nil || s.errMsg != "" || s.empty() {
		return layout.Notice{}
	}

	next := fmt.Sprintf("next in %.1fs", s.advanceDelay().Seconds())
	switch s.state.Answer.Status {
	case sess.AnswerCorrect:
		return layout.Notice{Text: "Correct, " + next, Tone: layout.ToneGood}
	case sess.AnswerWrong:
		return layout.Notice{Text: "Wrong, " + next, Tone: layout.ToneBad}
	}

	if s.state.Done() {
		return layout.Notice{}
	}
	if s.isMultipleChoice() {
		return layout.Notice{Text: "Target shown on the map", Tone: layout.ToneInfo}
	}
	return layout.Notice{
		Text: fmt.Sprintf("%d of %d regions", len(s.regions.Visible()), len(s.regions.Regions)),
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" || s.empty() {
		return []layout.KeyHint{{Key: "Any key", Description: "Back"}}
	}
	if s.state == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}

	hints := []layout.KeyHint{}
	switch s.state.Phase() {
	case sess.PhaseAnswered:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	case sess.PhaseIdle:
		if s.isMultipleChoice() {
			hints = append(hints, layout.KeyHint{Key: "1-9", Description: "Answer"})
		} else {
			hints = append(hints,
				layout.KeyHint{Key: "↑↓", Description: "Move"},
				layout.KeyHint{Key: "Type", Description: "Filter"},
				layout.KeyHint{Key: "Enter", Description: "Pick"},
			)
		}
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "Restart"},
		layout.KeyHint{Key: "Esc", Description: "Quit quiz"},
	)
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case roundLoadedMsg:
		return s.handleLoaded(msg)

	case autoAdvanceMsg:
		if s.state == nil || !s.state.AutoAdvance(msg.Ticket) {
			return s, nil
		}
		return s.afterAdvance()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) handleLoaded(msg roundLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loaded = true
	if msg.Err != nil {
		if errors.Is(msg.Err, store.ErrNotFound) {
			s.errMsg = "Quiz not found."
		} else {
			s.errMsg = msg.Err.Error()
		}
		s.deps.Logger.Warn("load quiz failed", "quiz_id", s.quizID, "error", msg.Err)
		return s, nil
	}

	s.round = msg.Round
	s.regions = components.NewRegionList(s.round.Regions)
	if s.empty() {
		s.deps.Logger.Info("quiz has no questions", "quiz_id", s.quizID)
		return s, nil
	}

	s.state = sess.New(s.quizID, s.round.Questions, s.round.Quiz.Settings.EasyMode)
	s.rec.Start(context.Background(), s.state)
	return s, s.regions.Filter.Init()
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" || s.empty() {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.state == nil {
		return s, nil
	}

	key := msg.String()
	switch key {
	case "ctrl+r":
		return s.restart()

	case "enter":
		switch s.state.Phase() {
		case sess.PhaseAnswered:
			s.state.Advance()
			return s.afterAdvance()
		case sess.PhaseIdle:
			if s.isMultipleChoice() {
				return s, nil
			}
			id, ok := s.regions.Selected()
			if !ok {
				return s, nil
			}
			return s.submit(id)
		}
		return s, nil
	}

	if s.state.Disabled() {
		return s, nil
	}

	if s.isMultipleChoice() {
		if a := s.state.KeyAction(key); a.Kind == sess.ActionSubmit {
			return s.submit(a.ChosenID)
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.regions, cmd = s.regions.Update(msg)
	return s, cmd
}

// submit answers the current question and schedules the auto-advance.
func (s *PlayScreen) submit(chosenID string) (screen.Screen, tea.Cmd) {
	ticket, ok := s.state.Submit(chosenID)
	if !ok {
		return s, nil
	}
	s.pending = ticket
	s.rec.Answer(context.Background(), s.state)
	return s, s.tickCmd(ticket)
}

// afterAdvance runs after every move to the next question. It records the
// move and shows the summary once the session is done.
func (s *PlayScreen) afterAdvance() (screen.Screen, tea.Cmd) {
	s.rec.Advanced(context.Background(), s.state)
	s.regions.ClearFilter()
	if !s.state.Done() {
		return s, nil
	}

	sum := sess.BuildSummary(s.state)
	deps, quizID := s.deps, s.quizID
	next := summary.New(sum, s.round.Quiz.Name, func() screen.Screen {
		return New(deps, quizID)
	})
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// restart draws a new question list and starts over.
func (s *PlayScreen) restart() (screen.Screen, tea.Cmd) {
	s.deps.Loader.Reshuffle(s.round)
	s.state.Reset(s.quizID, s.round.Questions)
	s.pending = sess.Ticket{}
	s.regions.ClearFilter()
	s.rec.Start(context.Background(), s.state)
	return s, nil
}

func (s *PlayScreen) advanceDelay() time.Duration {
	if s.deps.AutoAdvanceDelay > 0 {
		return s.deps.AutoAdvanceDelay
	}
	return sess.AutoAdvanceDelay
}

func (s *PlayScreen) tickCmd(t sess.Ticket) tea.Cmd {
	return tea.Tick(s.advanceDelay(), func(time.Time) tea.Msg {
		return autoAdvanceMsg{Ticket: t}
	})
}

// empty reports whether the quiz loaded but cannot produce questions.
func (s *PlayScreen) empty() bool {
	return s.round != nil && (s.round.PoolSize == 0 || len(s.round.Questions) == 0)
}

func (s *PlayScreen) isMultipleChoice() bool {
	if s.state == nil {
		return false
	}
	q, ok := s.state.Current()
	if !ok {
		return false
	}
	_, mc := q.(quiz.MultipleChoice)
	return mc
}
