package session

import (
	"strconv"

	"github.com/abhisek/geoquiz/internal/quiz"
)

// ActionKind is what a key press asks the session to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSubmit
	ActionAdvance
)

// Action is the result of mapping a key press onto the session.
type Action struct {
	Kind     ActionKind
	ChosenID string
}

// KeyAction maps a key (as reported by the terminal or browser, e.g. "1" or
// "enter") to an action for the current state. Digits pick a 1-based
// multiple-choice option; Enter advances an answered question.
func (s *State) KeyAction(key string) Action {
	q, ok := s.Current()
	if !ok {
		return Action{}
	}

	if key == "enter" || key == "Enter" {
		if s.Phase() == PhaseAnswered {
			return Action{Kind: ActionAdvance}
		}
		return Action{}
	}

	switch q := q.(type) {
	case quiz.MultipleChoice:
		if len(key) != 1 || key[0] < '1' || key[0] > '9' {
			return Action{}
		}
		n, _ := strconv.Atoi(key)
		id, ok := q.OptionAt(n)
		if !ok || s.Phase() != PhaseIdle {
			return Action{}
		}
		return Action{Kind: ActionSubmit, ChosenID: id}
	case quiz.MapClick:
		return Action{}
	}
	return Action{}
}

// PressKey applies the action for key. It returns the auto-advance ticket
// when the key submitted an answer.
func (s *State) PressKey(key string) (Ticket, bool) {
	a := s.KeyAction(key)
	switch a.Kind {
	case ActionSubmit:
		return s.Submit(a.ChosenID)
	case ActionAdvance:
		s.Advance()
	}
	return Ticket{}, false
}
