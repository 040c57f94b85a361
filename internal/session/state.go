package session

import (
	"time"

	"github.com/abhisek/geoquiz/internal/quiz"
)

// AutoAdvanceDelay is how long an answered question stays on screen before
// the session moves on by itself.
const AutoAdvanceDelay = 1400 * time.Millisecond

// AnswerStatus is the resolution of the current question.
type AnswerStatus int

const (
	AnswerIdle AnswerStatus = iota // Awaiting an answer
	AnswerCorrect
	AnswerWrong
)

func (s AnswerStatus) String() string {
	switch s {
	case AnswerCorrect:
		return "correct"
	case AnswerWrong:
		return "wrong"
	default:
		return "idle"
	}
}

// Answer is the answer state of the current question. ChosenID is empty
// while Status is AnswerIdle.
type Answer struct {
	Status   AnswerStatus
	ChosenID string
}

// Phase is the state machine position of a session.
type Phase int

const (
	PhaseIdle     Phase = iota // Awaiting an answer for the current question
	PhaseAnswered              // Answer recorded, waiting to advance
	PhaseDone                  // Every question has been played
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswered:
		return "answered"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

// Ticket identifies a scheduled auto-advance. It is only honoured while the
// session is still answered on the same question and no other transition
// has happened since it was issued.
type Ticket struct {
	Index      int
	Generation uint64
}

// State is one playthrough of a quiz. It is owned by a single play view and
// is not safe for concurrent use.
type State struct {
	// QuizID is the quiz this session is bound to.
	QuizID string

	// Questions is generated once per session.
	Questions []quiz.Question

	// Index is the current question; len(Questions) means done.
	Index int

	// Score counts correct answers so far.
	Score int

	// Answer is the answer state of the current question.
	Answer Answer

	// EasyMode keeps guessed and missed regions highlighted.
	EasyMode bool

	guessed idSet
	missed  idSet

	// generation changes on every transition so stale tickets are ignored.
	generation uint64
}

// New creates a session bound to quizID.
func New(quizID string, questions []quiz.Question, easyMode bool) *State {
	s := &State{EasyMode: easyMode}
	s.Reset(quizID, questions)
	return s
}

// Reset rebinds the session and clears all progress and easy-mode memory.
// Any pending auto-advance is cancelled.
func (s *State) Reset(quizID string, questions []quiz.Question) {
	s.QuizID = quizID
	s.Questions = questions
	s.Index = 0
	s.Score = 0
	s.Answer = Answer{}
	s.guessed = idSet{}
	s.missed = idSet{}
	s.generation++
}

// Phase returns the current state machine phase.
func (s *State) Phase() Phase {
	if s.Done() {
		return PhaseDone
	}
	if s.Answer.Status != AnswerIdle {
		return PhaseAnswered
	}
	return PhaseIdle
}

// Done reports whether every question has been played.
func (s *State) Done() bool {
	return s.Index >= len(s.Questions)
}

// Current returns the question being played, or false when done.
func (s *State) Current() (quiz.Question, bool) {
	if s.Done() {
		return nil, false
	}
	return s.Questions[s.Index], true
}

// Disabled reports whether player input should be ignored by renderers.
func (s *State) Disabled() bool {
	return s.Phase() != PhaseIdle
}

// Submit records chosenID as the answer to the current question. It is a
// no-op returning false unless the session is idle. On success the returned
// ticket should be scheduled to fire after AutoAdvanceDelay.
func (s *State) Submit(chosenID string) (Ticket, bool) {
	if s.Phase() != PhaseIdle {
		return Ticket{}, false
	}

	target := s.Questions[s.Index].Target()
	correct := chosenID == target
	if correct {
		s.Score++
		s.Answer = Answer{Status: AnswerCorrect, ChosenID: chosenID}
	} else {
		s.Answer = Answer{Status: AnswerWrong, ChosenID: chosenID}
	}

	if s.EasyMode {
		if correct {
			s.guessed.add(target)
		} else {
			s.missed.add(target)
		}
	}

	s.generation++
	return Ticket{Index: s.Index, Generation: s.generation}, true
}

// Advance moves from an answered question to the next one. It returns false
// when the session is not answered.
func (s *State) Advance() bool {
	if s.Phase() != PhaseAnswered {
		return false
	}
	s.Answer = Answer{}
	s.Index++
	s.generation++
	return true
}

// AutoAdvance advances only if t is still the live ticket.
func (s *State) AutoAdvance(t Ticket) bool {
	if t.Generation != s.generation || t.Index != s.Index {
		return false
	}
	return s.Advance()
}

// CancelAutoAdvance invalidates any outstanding ticket.
func (s *State) CancelAutoAdvance() {
	s.generation++
}

// Guessed returns the regions answered correctly in easy mode, in answer order.
func (s *State) Guessed() []string { return s.guessed.list() }

// Missed returns the regions answered wrongly in easy mode, in answer order.
// A region stays missed even if a later question on it is answered correctly.
func (s *State) Missed() []string { return s.missed.list() }

// idSet is an append-only set that remembers insertion order.
type idSet struct {
	order []string
	seen  map[string]bool
}

func (s *idSet) add(id string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.order = append(s.order, id)
}

func (s idSet) list() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
