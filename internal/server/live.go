package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/abhisek/geoquiz/internal/game"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/session"
)

// clientMessage is a player input sent by the browser.
type clientMessage struct {
	Type     string `json:"type"` // click, key or reset
	RegionID string `json:"regionId,omitempty"`
	Key      string `json:"key,omitempty"`
}

// optionView is a multiple-choice option with its display label.
type optionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// questionView is what the browser may show about the current question.
// The target of a map-click question is only named, never identified.
type questionView struct {
	Kind    quiz.Kind    `json:"kind"`
	Prompt  string       `json:"prompt,omitempty"`
	Image   string       `json:"image,omitempty"`
	Options []optionView `json:"options,omitempty"`
}

type answerView struct {
	Status   string `json:"status"`
	ChosenID string `json:"chosenId,omitempty"`
}

// stateMessage is pushed after every session transition.
type stateMessage struct {
	Type         string                       `json:"type"`
	QuizID       string                       `json:"quizId"`
	SessionID    string                       `json:"sessionId"`
	Index        int                          `json:"index"`
	Total        int                          `json:"total"`
	Score        int                          `json:"score"`
	PoolSize     int                          `json:"poolSize"`
	Answer       answerView                   `json:"answer"`
	Question     *questionView                `json:"question,omitempty"`
	RegionStates map[string]session.Highlight `json:"regionStates"`
	Done         bool                         `json:"done"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	round, err := s.opts.Loader.Load(r.Context(), quizID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.log.Warn("accept websocket failed", "error", err, "quiz_id", quizID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			s.log.Debug("close websocket failed", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	live := &liveSession{
		srv:   s,
		ws:    ws,
		round: round,
		state: session.New(quizID, round.Questions, round.Quiz.Settings.EasyMode),
		rec:   game.NewRecorder(s.opts.Events, s.log),
	}
	live.run(ctx)
}

// liveSession is one websocket connection playing one session. run is the
// only goroutine that touches state or writes to the socket.
type liveSession struct {
	srv   *Server
	ws    *websocket.Conn
	round *game.Round
	state *session.State
	rec   *game.Recorder

	timer   *time.Timer
	pending session.Ticket
}

func (l *liveSession) run(ctx context.Context) {
	incoming := make(chan clientMessage)
	go l.readLoop(ctx, incoming)
	defer l.stopTimer()

	l.rec.Start(ctx, l.state)
	if err := l.push(ctx); err != nil {
		return
	}

	for {
		var fired <-chan time.Time
		if l.timer != nil {
			fired = l.timer.C
		}

		select {
		case <-ctx.Done():
			return

		case msg, ok := <-incoming:
			if !ok {
				return
			}
			if err := l.handle(ctx, msg); err != nil {
				if err := l.send(ctx, errorMessage{Type: "error", Error: err.Error()}); err != nil {
					return
				}
				continue
			}

		case <-fired:
			l.timer = nil
			if !l.state.AutoAdvance(l.pending) {
				continue
			}
			l.rec.Advanced(ctx, l.state)
		}

		if err := l.push(ctx); err != nil {
			return
		}
	}
}

// handle applies one client message to the session.
func (l *liveSession) handle(ctx context.Context, msg clientMessage) error {
	switch msg.Type {
	case "click":
		if t, ok := l.state.Submit(msg.RegionID); ok {
			l.answered(ctx, t)
		}
	case "key":
		a := l.state.KeyAction(msg.Key)
		switch a.Kind {
		case session.ActionSubmit:
			if t, ok := l.state.Submit(a.ChosenID); ok {
				l.answered(ctx, t)
			}
		case session.ActionAdvance:
			l.stopTimer()
			if l.state.Advance() {
				l.rec.Advanced(ctx, l.state)
			}
		}
	case "reset":
		l.stopTimer()
		l.srv.opts.Loader.Reshuffle(l.round)
		l.state.Reset(l.round.Quiz.ID, l.round.Questions)
		l.rec.Start(ctx, l.state)
	default:
		return errors.New("unknown message type " + msg.Type)
	}
	return nil
}

func (l *liveSession) answered(ctx context.Context, t session.Ticket) {
	l.rec.Answer(ctx, l.state)
	l.stopTimer()
	l.pending = t
	l.timer = time.NewTimer(l.srv.opts.AutoAdvanceDelay)
}

func (l *liveSession) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *liveSession) readLoop(ctx context.Context, out chan<- clientMessage) {
	defer close(out)
	for {
		_, data, err := l.ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				l.srv.log.Debug("websocket read failed", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = clientMessage{Type: "invalid"}
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (l *liveSession) push(ctx context.Context) error {
	return l.send(ctx, l.snapshot())
}

func (l *liveSession) send(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := l.ws.Write(ctx, websocket.MessageText, data); err != nil {
		l.srv.log.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}

// snapshot renders the session for the browser.
func (l *liveSession) snapshot() stateMessage {
	st := l.state
	msg := stateMessage{
		Type:         "state",
		QuizID:       st.QuizID,
		SessionID:    l.rec.SessionID(),
		Index:        st.Index,
		Total:        len(st.Questions),
		Score:        st.Score,
		PoolSize:     l.round.PoolSize,
		Answer:       answerView{Status: st.Answer.Status.String(), ChosenID: st.Answer.ChosenID},
		RegionStates: st.RegionStates(),
		Done:         st.Done(),
	}

	q, ok := st.Current()
	if !ok {
		return msg
	}
	view := &questionView{Kind: q.Kind()}
	switch q := q.(type) {
	case quiz.MultipleChoice:
		for _, id := range q.Options {
			view.Options = append(view.Options, optionView{ID: id, Label: l.round.Label(id)})
		}
	case quiz.MapClick:
		if l.round.Quiz.Type.RequiresImages() {
			view.Image = l.round.Image(q.TargetID)
		} else {
			view.Prompt = l.round.Label(q.TargetID)
		}
	}
	msg.Question = view
	return msg
}
