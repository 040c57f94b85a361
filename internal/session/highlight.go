package session

import (
	"fmt"

	"github.com/abhisek/geoquiz/internal/quiz"
)

// Highlight is how a renderer should style a region.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightTarget
	HighlightCorrect
	HighlightWrong
)

func (h Highlight) String() string {
	switch h {
	case HighlightTarget:
		return "target"
	case HighlightCorrect:
		return "correct"
	case HighlightWrong:
		return "wrong"
	default:
		return "none"
	}
}

// MarshalText encodes the highlight by name so region state maps serialize
// as {"id": "correct"}.
func (h Highlight) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a highlight name.
func (h *Highlight) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*h = HighlightNone
	case "target":
		*h = HighlightTarget
	case "correct":
		*h = HighlightCorrect
	case "wrong":
		*h = HighlightWrong
	default:
		return fmt.Errorf("unknown highlight %q", b)
	}
	return nil
}

// RegionStates derives the highlight of every region that is not
// HighlightNone. Absent IDs are HighlightNone. Later rules win:
// easy-mode guessed, easy-mode missed, multiple-choice target while idle,
// then the answered target.
func RegionStates(q quiz.Question, answer Answer, easyMode bool, guessed, missed []string) map[string]Highlight {
	states := make(map[string]Highlight)
	if q == nil {
		return states
	}

	if easyMode {
		for _, id := range guessed {
			states[id] = HighlightCorrect
		}
		for _, id := range missed {
			states[id] = HighlightWrong
		}
	}

	if _, ok := q.(quiz.MultipleChoice); ok && answer.Status == AnswerIdle {
		states[q.Target()] = HighlightTarget
	}

	// The chosen wrong region is left alone; only the missed target is shown.
	switch answer.Status {
	case AnswerWrong:
		states[q.Target()] = HighlightWrong
	case AnswerCorrect:
		states[q.Target()] = HighlightCorrect
	}

	return states
}

// RegionStates returns the highlight map for the current question, or an
// empty map once the session is done.
func (s *State) RegionStates() map[string]Highlight {
	q, _ := s.Current()
	return RegionStates(q, s.Answer, s.EasyMode, s.Guessed(), s.Missed())
}
