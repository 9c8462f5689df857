package game

import (
	"github.com/wellplay/game-server/internal/schema"
	"github.com/wellplay/game-server/internal/words"
)

// Snapshot is the read model pushed to the presentation layer after every action.
type Snapshot struct {
	SessionID  string          `json:"sessionId"`
	GameID     string          `json:"gameId"`
	Type       schema.Type     `json:"type"`
	Title      string          `json:"title"`
	Status     Status          `json:"status"`
	Score      int             `json:"score"`
	MaxScore   int             `json:"maxScore"`
	Answered   int             `json:"answered"`
	Total      int             `json:"total"`
	Ready      bool            `json:"ready"`
	Progress   Progress        `json:"progress"`
	Result     *Result         `json:"result,omitempty"`
	WordSearch *WordSearchView `json:"wordSearch,omitempty"`
}

// WordSearchView is the grid plus what is left to find. Remaining lists only
// placed words, so it always agrees with the score denominator.
type WordSearchView struct {
	Size      int                `json:"size"`
	Grid      [][]string         `json:"grid"`
	Remaining []Clue             `json:"remaining"`
	Found     []words.PlacedWord `json:"found"`
	Failed    []string           `json:"failed,omitempty"`
}

// Clue is a word still hidden in the grid.
type Clue struct {
	Word string `json:"word"`
	Hint string `json:"hint,omitempty"`
}

// View builds the snapshot for s.
func View(s Session) Snapshot {
	snap := Snapshot{
		SessionID: s.ID,
		Status:    s.State.Status,
		Score:     s.State.Score,
		Progress:  s.State.Progress,
		Result:    s.State.Result,
	}
	if s.Game != nil {
		snap.GameID = s.Game.ID
		snap.Type = s.Game.Type
		snap.Title = s.Game.Title
	}
	if st, err := StrategyFor(&s); err == nil {
		snap.MaxScore = st.MaxScore()
		snap.Answered = st.Answered(s.State.Progress)
		snap.Total = st.Total()
		snap.Ready = s.State.Status != StatusCompleted && st.Ready(s.State.Progress)
	}
	if s.Puzzle != nil {
		snap.WordSearch = wordSearchView(s)
	}
	return snap
}

func wordSearchView(s Session) *WordSearchView {
	hints := map[string]string{}
	if s.Game != nil && s.Game.WordPuzzle != nil {
		for _, w := range s.Game.WordPuzzle.Words {
			hints[words.Normalize(w.Word)] = w.Hint
		}
	}
	v := &WordSearchView{
		Size:      s.Puzzle.Size,
		Grid:      s.Puzzle.Grid,
		Remaining: []Clue{},
		Found:     []words.PlacedWord{},
		Failed:    s.Puzzle.Failed,
	}
	for _, pw := range s.Puzzle.Placed {
		if s.State.Progress.Found[pw.Word] {
			v.Found = append(v.Found, pw)
			continue
		}
		v.Remaining = append(v.Remaining, Clue{Word: pw.Word, Hint: hints[pw.Word]})
	}
	return v
}
