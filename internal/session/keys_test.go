package session

import (
	"testing"

	"github.com/abhisek/geoquiz/internal/quiz"
)

func mcSession() *State {
	return New("quiz-mc", []quiz.Question{
		quiz.MultipleChoice{TargetID: "b", Options: []string{"a", "b", "c"}},
		quiz.MultipleChoice{TargetID: "c", Options: []string{"c", "a"}},
	}, false)
}

func TestKeyAction_MultipleChoice(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{"1", Action{Kind: ActionSubmit, ChosenID: "a"}},
		{"2", Action{Kind: ActionSubmit, ChosenID: "b"}},
		{"3", Action{Kind: ActionSubmit, ChosenID: "c"}},
		{"4", Action{}},
		{"9", Action{}},
		{"0", Action{}},
		{"x", Action{}},
		{"enter", Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := mcSession()
			if got := s.KeyAction(tt.key); got != tt.want {
				t.Errorf("KeyAction(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestPressKey_SubmitThenAdvance(t *testing.T) {
	s := mcSession()

	if _, ok := s.PressKey("2"); !ok {
		t.Fatal("expected digit to submit")
	}
	if s.Answer.Status != AnswerCorrect || s.Score != 1 {
		t.Fatalf("Answer=%+v Score=%d", s.Answer, s.Score)
	}

	// Digits are ignored once answered.
	if _, ok := s.PressKey("1"); ok {
		t.Error("digit after answer should be ignored")
	}

	s.PressKey("enter")
	if s.Index != 1 || s.Phase() != PhaseIdle {
		t.Errorf("Index=%d Phase=%v, want 1/idle", s.Index, s.Phase())
	}
}

func TestKeyAction_MapClick(t *testing.T) {
	s := New("quiz-1", mapClickQuestions("a", "b"), false)

	if got := s.KeyAction("1"); got.Kind != ActionNone {
		t.Errorf("digit on map-click = %+v, want none", got)
	}
	if got := s.KeyAction("enter"); got.Kind != ActionNone {
		t.Errorf("enter while idle = %+v, want none", got)
	}

	s.Submit("a")
	if got := s.KeyAction("enter"); got.Kind != ActionAdvance {
		t.Errorf("enter while answered = %+v, want advance", got)
	}
}

func TestKeyAction_Done(t *testing.T) {
	s := New("quiz-1", nil, false)
	if got := s.KeyAction("enter"); got.Kind != ActionNone {
		t.Errorf("KeyAction on done session = %+v", got)
	}
}
