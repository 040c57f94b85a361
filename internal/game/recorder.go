package game

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/store"
)

// Recorder appends play events for one session and logs its transitions.
// Store failures are logged and never interrupt play.
type Recorder struct {
	events    store.EventRepo
	logger    *slog.Logger
	sessionID string
	ended     bool
}

// NewRecorder creates a recorder with a fresh session ID. events may be nil.
func NewRecorder(events store.EventRepo, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{events: events, logger: logger, sessionID: uuid.NewString()}
}

// SessionID identifies the current playthrough.
func (r *Recorder) SessionID() string { return r.sessionID }

// Start records a new playthrough of s. Call it after every reset.
func (r *Recorder) Start(ctx context.Context, s *session.State) {
	r.sessionID = uuid.NewString()
	r.ended = false
	r.logger.Debug("session reset",
		"session_id", r.sessionID, "quiz_id", s.QuizID, "questions", len(s.Questions))
	r.append(ctx, store.PlayEventData{
		SessionID: r.sessionID,
		QuizID:    s.QuizID,
		Action:    store.PlayStart,
		Total:     len(s.Questions),
	})
}

// Answer records the answer just submitted to s.
func (r *Recorder) Answer(ctx context.Context, s *session.State) {
	q, ok := s.Current()
	if !ok {
		return
	}
	correct := s.Answer.Status == session.AnswerCorrect
	r.logger.Debug("answer submitted",
		"session_id", r.sessionID, "quiz_id", s.QuizID, "index", s.Index,
		"correct", correct, "score", s.Score)
	r.append(ctx, store.PlayEventData{
		SessionID:     r.sessionID,
		QuizID:        s.QuizID,
		Action:        store.PlayAnswer,
		QuestionIndex: s.Index,
		Total:         len(s.Questions),
		TargetID:      q.Target(),
		ChosenID:      s.Answer.ChosenID,
		Correct:       correct,
		Score:         s.Score,
	})
}

// Advanced logs a move to the next question and records the end of the
// session once, when s is done.
func (r *Recorder) Advanced(ctx context.Context, s *session.State) {
	r.logger.Debug("session advanced",
		"session_id", r.sessionID, "quiz_id", s.QuizID, "index", s.Index, "score", s.Score)
	if !s.Done() || r.ended {
		return
	}
	r.ended = true
	r.append(ctx, store.PlayEventData{
		SessionID:     r.sessionID,
		QuizID:        s.QuizID,
		Action:        store.PlayEnd,
		QuestionIndex: s.Index,
		Total:         len(s.Questions),
		Score:         s.Score,
	})
}

func (r *Recorder) append(ctx context.Context, data store.PlayEventData) {
	if r.events == nil {
		return
	}
	if err := r.events.AppendPlayEvent(ctx, data); err != nil {
		r.logger.Warn("record play event failed", "action", data.Action, "error", err)
	}
}
