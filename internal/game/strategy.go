package game

import (
	"fmt"

	"github.com/wellplay/game-server/internal/schema"
	"github.com/wellplay/game-server/internal/words"
)

// Strategy is the per-type rule set behind one session.
// Apply receives a private copy of the progress and returns the updated copy;
// on error the caller discards it.
type Strategy interface {
	Apply(p Progress, a Action) (Progress, error)
	// Correct counts units currently answered correctly.
	Correct(p Progress) int
	// Answered counts units the player has engaged with.
	Answered(p Progress) int
	Total() int
	MaxScore() int
	// Ready reports whether an explicit Complete is allowed.
	Ready(p Progress) bool
	// AutoComplete reports whether the session finishes itself.
	AutoComplete(p Progress) bool
}

type factory func(g *schema.Game, pz *words.Puzzle) Strategy

var strategies = map[schema.Type]factory{
	schema.TypeMatching:      func(g *schema.Game, _ *words.Puzzle) Strategy { return newMatching(g.Matching) },
	schema.TypeFillBlank:     func(g *schema.Game, _ *words.Puzzle) Strategy { return newFillBlank(g.FillBlank, g.Scoring.MaxScore) },
	schema.TypeCardFlip:      func(g *schema.Game, _ *words.Puzzle) Strategy { return newCardFlip(g.CardFlip, g.Scoring.MaxScore) },
	schema.TypeWordPuzzle:    func(g *schema.Game, pz *words.Puzzle) Strategy { return newWordSearch(pz, g.Scoring.MaxScore) },
	schema.TypeQuiz:          func(g *schema.Game, _ *words.Puzzle) Strategy { return newQuiz(g.Quiz, g.Scoring.MaxScore) },
	schema.TypeSorting:       func(g *schema.Game, _ *words.Puzzle) Strategy { return newSorting(g.Sorting, g.Scoring.MaxScore) },
	schema.TypeDragDrop:      func(g *schema.Game, _ *words.Puzzle) Strategy { return newSorting(g.Sorting, g.Scoring.MaxScore) },
	schema.TypeStorySequence: func(g *schema.Game, _ *words.Puzzle) Strategy { return newSequence(g.Sequence, g.Scoring.MaxScore) },
}

// Playable reports whether t has a session engine.
func Playable(t schema.Type) bool {
	_, ok := strategies[t]
	return ok
}

// StrategyFor builds the rule set for a session's schema (and puzzle, for word-search).
func StrategyFor(s *Session) (Strategy, error) {
	if s == nil || s.Game == nil {
		return nil, fmt.Errorf("%w: nil session", ErrUnsupportedType)
	}
	f, ok := strategies[s.Game.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, s.Game.Type)
	}
	if s.Game.Type == schema.TypeWordPuzzle && s.Puzzle == nil {
		return nil, fmt.Errorf("%w: word-search session has no puzzle", ErrUnsupportedType)
	}
	return f(s.Game, s.Puzzle), nil
}

// ScoreOf is floor(correct/total*max), clamped to [0,max].
func ScoreOf(st Strategy, p Progress) int {
	total, maxScore := st.Total(), st.MaxScore()
	if total <= 0 || maxScore <= 0 {
		return 0
	}
	c := st.Correct(p)
	if c < 0 {
		c = 0
	}
	if c > total {
		c = total
	}
	return c * maxScore / total
}

func invalidAction(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}
