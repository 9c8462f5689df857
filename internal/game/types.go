// internal/game/types.go
//
// Core type definitions for the game session engine.
// Defines:
//   - Status: NotStarted → InProgress → Completed (terminal).
//   - Progress: the player's per-unit answers, one shape shared by all types.
//   - State: progress plus derived score and lifecycle timestamps.
//   - Action: one player input, interpreted by the type's Strategy.
//   - Session: schema + state (+ generated puzzle), serialisable as JSON.

package game

import (
	"errors"
	"time"

	"github.com/wellplay/game-server/internal/schema"
	"github.com/wellplay/game-server/internal/words"
)

var (
	// ErrInvalidAction covers player input that cannot apply: unknown unit,
	// a bent drag, a guess that matches nothing. Callers absorb it.
	ErrInvalidAction = errors.New("invalid action")
	// ErrCompleted is returned for an action on a completed session.
	ErrCompleted = errors.New("session completed")
	// ErrAlreadyCompleted is returned by a second Complete.
	ErrAlreadyCompleted = errors.New("session already completed")
	// ErrNotReady is returned by Complete before the type's completion predicate holds.
	ErrNotReady = errors.New("session not ready to complete")
	// ErrUnsupportedType is returned when a schema type has no session engine.
	ErrUnsupportedType = errors.New("game type not playable")
)

// Status is the session lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Progress is the player's answers so far.
//   - Answers: matching leftId→rightId, fill-blank blankId→text,
//     quiz questionId→option, sorting itemId→bucketId.
//   - Found: word-search words found.
//   - Viewed/Flipped: card-flip cards ever turned / currently showing the back.
//   - Order: story-sequence submitted event order.
type Progress struct {
	Answers map[string]string `json:"answers,omitempty"`
	Found   map[string]bool   `json:"found,omitempty"`
	Viewed  map[string]bool   `json:"viewed,omitempty"`
	Flipped map[string]bool   `json:"flipped,omitempty"`
	Order   []string          `json:"order,omitempty"`
}

// Clone returns a deep copy so strategies never write through to a previous state.
func (p Progress) Clone() Progress {
	return Progress{
		Answers: cloneMap(p.Answers),
		Found:   cloneMap(p.Found),
		Viewed:  cloneMap(p.Viewed),
		Flipped: cloneMap(p.Flipped),
		Order:   append([]string(nil), p.Order...),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// State is the mutable part of a session. Score is always derived from
// Progress by the engine; nothing else writes it.
type State struct {
	Status      Status     `json:"status"`
	StartTime   time.Time  `json:"startTime"`
	Progress    Progress   `json:"progress"`
	Score       int        `json:"score"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Result      *Result    `json:"result,omitempty"`

	// Attempt counts resets; each play-through of a session has its own.
	Attempt int `json:"attempt"`
}

// ActionKind selects how a Strategy interprets an Action.
type ActionKind string

const (
	ActionMatch   ActionKind = "match"    // matching: Unit=leftId, Value=rightId ("" clears)
	ActionAnswer  ActionKind = "answer"   // fill-blank, quiz: Unit=blank/question id
	ActionFlip    ActionKind = "flip"     // card-flip: Unit=card id
	ActionFlipAll ActionKind = "flip-all" // card-flip
	ActionSelect  ActionKind = "select"   // word-search: Start, End, optional Path
	ActionGuess   ActionKind = "guess"    // word-search: Value=typed word
	ActionAssign  ActionKind = "assign"   // sorting, drag-drop: Unit=itemId, Value=bucketId
	ActionOrder   ActionKind = "order"    // story-sequence: Order=event ids
)

// Action is one player input.
type Action struct {
	Kind  ActionKind   `json:"kind"`
	Unit  string       `json:"unit,omitempty"`
	Value string       `json:"value,omitempty"`
	Start *words.Cell  `json:"start,omitempty"`
	End   *words.Cell  `json:"end,omitempty"`
	Path  []words.Cell `json:"path,omitempty"`
	Order []string     `json:"order,omitempty"`
}

// Session is one play-through. Game and Puzzle are read-only once created.
type Session struct {
	ID     string        `json:"id"`
	Game   *schema.Game  `json:"game"`
	Puzzle *words.Puzzle `json:"puzzle,omitempty"`
	State  State         `json:"state"`
}
