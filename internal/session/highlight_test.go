package session

import (
	"encoding/json"
	"testing"

	"github.com/abhisek/geoquiz/internal/quiz"
)

func TestRegionStates_Rules(t *testing.T) {
	mc := quiz.MultipleChoice{TargetID: "t", Options: []string{"t", "o"}}
	mapQ := quiz.MapClick{TargetID: "t"}

	tests := []struct {
		name     string
		q        quiz.Question
		answer   Answer
		easyMode bool
		guessed  []string
		missed   []string
		want     map[string]Highlight
	}{
		{
			name: "map-click idle hides target",
			q:    mapQ,
			want: map[string]Highlight{},
		},
		{
			name: "multiple-choice idle reveals target",
			q:    mc,
			want: map[string]Highlight{"t": HighlightTarget},
		},
		{
			name:   "wrong marks target not chosen",
			q:      mc,
			answer: Answer{Status: AnswerWrong, ChosenID: "o"},
			want:   map[string]Highlight{"t": HighlightWrong},
		},
		{
			name:   "correct marks target",
			q:      mapQ,
			answer: Answer{Status: AnswerCorrect, ChosenID: "t"},
			want:   map[string]Highlight{"t": HighlightCorrect},
		},
		{
			name:    "memory ignored without easy mode",
			q:       mapQ,
			guessed: []string{"g"},
			missed:  []string{"m"},
			want:    map[string]Highlight{},
		},
		{
			name:     "easy mode memory",
			q:        mapQ,
			easyMode: true,
			guessed:  []string{"g"},
			missed:   []string{"m"},
			want:     map[string]Highlight{"g": HighlightCorrect, "m": HighlightWrong},
		},
		{
			name:     "missed overrides guessed",
			q:        mapQ,
			easyMode: true,
			guessed:  []string{"x"},
			missed:   []string{"x"},
			want:     map[string]Highlight{"x": HighlightWrong},
		},
		{
			name:     "current target overrides memory",
			q:        mc,
			easyMode: true,
			missed:   []string{"t"},
			want:     map[string]Highlight{"t": HighlightTarget},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RegionStates(tt.q, tt.answer, tt.easyMode, tt.guessed, tt.missed)
			if len(got) != len(tt.want) {
				t.Fatalf("RegionStates = %v, want %v", got, tt.want)
			}
			for id, h := range tt.want {
				if got[id] != h {
					t.Errorf("state[%q] = %v, want %v", id, got[id], h)
				}
			}
		})
	}
}

func TestRegionStates_NilQuestion(t *testing.T) {
	got := RegionStates(nil, Answer{}, true, []string{"a"}, nil)
	if len(got) != 0 {
		t.Errorf("expected empty map without a question, got %v", got)
	}
}

func TestRegionStates_MissedPersistsAcrossQuestions(t *testing.T) {
	s := New("quiz-1", mapClickQuestions("x", "a", "b"), true)
	s.Submit("wrong")
	s.Advance()
	s.Submit("a")
	s.Advance()

	states := s.RegionStates()
	if states["x"] != HighlightWrong {
		t.Errorf("state[x] = %v, want wrong", states["x"])
	}
	if states["a"] != HighlightCorrect {
		t.Errorf("state[a] = %v, want correct", states["a"])
	}
	if _, ok := states["b"]; ok {
		t.Errorf("current map-click target must not be revealed, got %v", states["b"])
	}
}

func TestRegionStates_GuessedPersistsTwoQuestionsLater(t *testing.T) {
	s := New("quiz-1", []quiz.Question{
		quiz.MultipleChoice{TargetID: "y", Options: []string{"y", "p"}},
		quiz.MultipleChoice{TargetID: "p", Options: []string{"p", "q"}},
		quiz.MultipleChoice{TargetID: "q", Options: []string{"q", "p"}},
	}, true)

	s.PressKey("1")
	s.Advance()
	s.Submit("p")
	s.Advance()

	states := s.RegionStates()
	if states["y"] != HighlightCorrect {
		t.Errorf("state[y] = %v, want correct", states["y"])
	}
	if states["q"] != HighlightTarget {
		t.Errorf("state[q] = %v, want target", states["q"])
	}
}

func TestRegionStates_WrongThenCorrectStaysWrong(t *testing.T) {
	s := New("quiz-1", mapClickQuestions("x", "y", "x", "z"), true)
	s.Submit("nope")
	s.Advance()
	s.Submit("y")
	s.Advance()
	s.Submit("x")
	s.Advance()

	if got := s.RegionStates()["x"]; got != HighlightWrong {
		t.Errorf("state[x] = %v, want wrong (missed is never healed)", got)
	}
}

func TestRegionStates_EmptyWhenDone(t *testing.T) {
	s := New("quiz-1", mapClickQuestions("a"), true)
	s.Submit("a")
	s.Advance()
	if got := s.RegionStates(); len(got) != 0 {
		t.Errorf("expected empty map when done, got %v", got)
	}
}

func TestHighlight_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Highlight{"a": HighlightCorrect})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":"correct"}` {
		t.Errorf("json = %s", b)
	}

	var back map[string]Highlight
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["a"] != HighlightCorrect {
		t.Errorf("round trip = %v", back)
	}
}
