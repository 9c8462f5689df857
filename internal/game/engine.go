// internal/game/engine.go
//
// Session engine shared by every playable game type.
// Responsibilities:
//   - Start sessions from a validated schema (generating the grid for word-search).
//   - Apply player actions through the type's Strategy and re-derive the score.
//   - Enforce the lifecycle: NotStarted → InProgress → Completed, no double completion.
//   - Reset a session to a fresh NotStarted state (a new grid for word-search).
//
// Notes:
//   - Every operation takes a Session value and returns a new one; the input is
//     never modified, so callers can keep or discard either.
//   - Randomness and time are passed in for replayable tests.
package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wellplay/game-server/internal/schema"
	"github.com/wellplay/game-server/internal/words"
)

// NewSession starts a play-through of g. Structural problems surface as
// schema.ErrSchemaInvalid; types without an engine as ErrUnsupportedType.
// Word-search words that could not be placed are listed in Puzzle.Failed.
func NewSession(g *schema.Game, rng *rand.Rand, now time.Time) (*Session, error) {
	if err := schema.Validate(g); err != nil {
		return nil, err
	}
	if !Playable(g.Type) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, g.Type)
	}
	s := &Session{ID: uuid.NewString(), Game: g}
	if g.Type == schema.TypeWordPuzzle {
		pz, err := generate(g.WordPuzzle, rng)
		if err != nil {
			return nil, err
		}
		s.Puzzle = pz
	}
	s.State = freshState(now)
	return s, nil
}

func freshState(now time.Time) State {
	return State{
		Status:    StatusNotStarted,
		StartTime: now,
		Progress:  Progress{}.Clone(),
	}
}

func generate(c *schema.WordPuzzleContent, rng *rand.Rand) (*words.Puzzle, error) {
	reqs := make([]words.Request, 0, len(c.Words))
	for _, w := range c.Words {
		reqs = append(reqs, words.Request{Word: w.Word, Direction: words.Direction(strings.ToLower(w.Direction))})
	}
	pz, err := words.Generate(rng, reqs, words.ParseSize(c.GridSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", schema.ErrSchemaInvalid, err)
	}
	if len(pz.Placed) == 0 {
		return nil, fmt.Errorf("%w: no word fits a %dx%d grid", schema.ErrSchemaInvalid, pz.Size, pz.Size)
	}
	return pz, nil
}

// Apply applies one action. On any error the returned session equals s.
// Reaching the type's auto-completion condition completes the session in the
// same call; check State.Result.
func Apply(s Session, a Action, now time.Time) (Session, error) {
	if s.State.Status == StatusCompleted {
		return s, ErrCompleted
	}
	st, err := StrategyFor(&s)
	if err != nil {
		return s, err
	}
	p, err := st.Apply(s.State.Progress.Clone(), a)
	if err != nil {
		return s, err
	}
	next := s
	next.State.Progress = p
	next.State.Status = StatusInProgress
	next.State.Score = ScoreOf(st, p)
	if st.AutoComplete(p) {
		next = complete(next, st, now)
	}
	return next, nil
}

// Complete finishes the session and freezes its result.
func Complete(s Session, now time.Time) (Session, Result, error) {
	if s.State.Status == StatusCompleted {
		return s, Result{}, ErrAlreadyCompleted
	}
	st, err := StrategyFor(&s)
	if err != nil {
		return s, Result{}, err
	}
	if !st.Ready(s.State.Progress) {
		return s, Result{}, ErrNotReady
	}
	next := complete(s, st, now)
	return next, *next.State.Result, nil
}

func complete(s Session, st Strategy, now time.Time) Session {
	r := Finalize(s.State, st, now)
	at := now
	s.State.Status = StatusCompleted
	s.State.CompletedAt = &at
	s.State.Score = r.Score
	s.State.Result = &r
	return s
}

// Reset clears all progress, restarts the clock and starts the next attempt.
// A word-search session gets a newly generated grid, which is not guaranteed
// to match the old one.
func Reset(s Session, rng *rand.Rand, now time.Time) (Session, error) {
	next := s
	if s.Game != nil && s.Game.Type == schema.TypeWordPuzzle {
		pz, err := generate(s.Game.WordPuzzle, rng)
		if err != nil {
			return s, err
		}
		next.Puzzle = pz
	}
	next.State = freshState(now)
	next.State.Attempt = s.State.Attempt + 1
	return next, nil
}

// Ready reports whether Complete would currently succeed.
func Ready(s Session) bool {
	if s.State.Status == StatusCompleted {
		return false
	}
	st, err := StrategyFor(&s)
	return err == nil && st.Ready(s.State.Progress)
}
