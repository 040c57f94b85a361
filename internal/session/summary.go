package session

// Summary holds the data displayed when a session completes.
type Summary struct {
	QuizID   string
	Total    int
	Answered int
	Score    int
	Accuracy float64
	Guessed  int
	Missed   int
}

// BuildSummary creates a Summary from the current session state.
func BuildSummary(s *State) *Summary {
	var accuracy float64
	if s.Index > 0 {
		accuracy = float64(s.Score) / float64(s.Index)
	}
	return &Summary{
		QuizID:   s.QuizID,
		Total:    len(s.Questions),
		Answered: s.Index,
		Score:    s.Score,
		Accuracy: accuracy,
		Guessed:  len(s.guessed.order),
		Missed:   len(s.missed.order),
	}
}
