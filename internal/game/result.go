package game

import (
	"math"
	"time"
)

// Result is the uniform record handed to whoever consumes a finished session.
type Result struct {
	Score          int     `json:"score"`
	MaxScore       int     `json:"maxScore"`
	TimeSpent      int     `json:"timeSpent"` // whole seconds
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	Accuracy       float64 `json:"accuracy"` // percent, 0–100
}

// Finalize derives the result from the state. It does not change the state.
func Finalize(s State, st Strategy, now time.Time) Result {
	correct, total := st.Correct(s.Progress), st.Total()
	r := Result{
		Score:          ScoreOf(st, s.Progress),
		MaxScore:       st.MaxScore(),
		CorrectAnswers: correct,
		TotalQuestions: total,
	}
	if spent := now.Sub(s.StartTime); spent > 0 {
		r.TimeSpent = int(spent / time.Second)
	}
	if total > 0 {
		r.Accuracy = float64(correct) / float64(total) * 100
	}
	if math.IsNaN(r.Accuracy) || math.IsInf(r.Accuracy, 0) {
		r.Accuracy = 0
	}
	return r
}
