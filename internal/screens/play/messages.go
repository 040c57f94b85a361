package play

import (
	"github.com/abhisek/geoquiz/internal/game"
	sess "github.com/abhisek/geoquiz/internal/session"
)

// roundLoadedMsg is sent when the quiz, its dataset and the questions are ready.
type roundLoadedMsg struct {
	Round *game.Round
	Err   error
}

// autoAdvanceMsg is sent when the delay after an answer has elapsed.
// Stale tickets are ignored by the session.
type autoAdvanceMsg struct {
	Ticket sess.Ticket
}
