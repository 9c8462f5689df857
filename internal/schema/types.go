// internal/schema/types.go
//
// Typed description of a playable game.
// Defines:
//   - Type: the closed tag selecting content variant and session engine.
//   - Game: metadata + scoring + exactly one typed content payload.
//   - One content struct per game type.
//
// A Game is created once (by Decode or a fixture) and never mutated by a session.

package schema

import "encoding/json"

// Type is the game-type tag carried in the "type" field.
type Type string

const (
	TypeQuiz             Type = "quiz"
	TypeDragDrop         Type = "drag-drop"
	TypeMemoryMatch      Type = "memory-match"
	TypeWordPuzzle       Type = "word-puzzle"
	TypeSorting          Type = "sorting"
	TypeMatching         Type = "matching"
	TypeStorySequence    Type = "story-sequence"
	TypeFillBlank        Type = "fill-blank"
	TypeCardFlip         Type = "card-flip"
	TypePuzzleAssembly   Type = "puzzle-assembly"
	TypeAnxietyAdventure Type = "anxiety-adventure"
)

// Known reports whether t is one of the declared game types.
func (t Type) Known() bool {
	switch t {
	case TypeQuiz, TypeDragDrop, TypeMemoryMatch, TypeWordPuzzle, TypeSorting,
		TypeMatching, TypeStorySequence, TypeFillBlank, TypeCardFlip,
		TypePuzzleAssembly, TypeAnxietyAdventure:
		return true
	}
	return false
}

// Scoring is the schema's scoring block. Only MaxScore is contractually used;
// the per-answer deltas are carried through for clients that display them.
type Scoring struct {
	MaxScore         int `json:"maxScore"`
	PointsPerCorrect int `json:"pointsPerCorrect,omitempty"`
	PenaltyPerWrong  int `json:"penaltyPerIncorrect,omitempty"`
}

// Game is the immutable game description.
// Exactly one of the typed content pointers is non-nil after Decode, matching Type.
type Game struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Type        Type    `json:"type"`
	Difficulty  string  `json:"difficulty,omitempty"`
	Category    string  `json:"category,omitempty"`
	Version     string  `json:"version,omitempty"`
	Scoring     Scoring `json:"scoring"`

	// Raw keeps the original content payload for types without a playable engine.
	Raw json.RawMessage `json:"-"`

	Matching   *MatchingContent   `json:"-"`
	FillBlank  *FillBlankContent  `json:"-"`
	CardFlip   *CardFlipContent   `json:"-"`
	WordPuzzle *WordPuzzleContent `json:"-"`
	Quiz       *QuizContent       `json:"-"`
	Sorting    *SortingContent    `json:"-"`
	Sequence   *SequenceContent   `json:"-"`
}

// MatchingContent: ordered source pairs. Left and right sides are keyed by the
// pair id, so a match is correct iff both sides came from the same pair.
type MatchingContent struct {
	Instructions string `json:"instructions,omitempty"`
	Pairs        []Pair `json:"pairs"`
}

type Pair struct {
	ID          string `json:"id"`
	Left        string `json:"left"`
	Right       string `json:"right"`
	Explanation string `json:"explanation,omitempty"`
}

// FillBlankContent holds passages of raw text with blanks at character offsets.
type FillBlankContent struct {
	Instructions string    `json:"instructions,omitempty"`
	Passages     []Passage `json:"passages"`
}

type Passage struct {
	ID     string  `json:"id,omitempty"`
	Text   string  `json:"text"`
	Blanks []Blank `json:"blanks"`
}

type Blank struct {
	ID            string   `json:"id"`
	Position      int      `json:"position"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options,omitempty"`
	Hint          string   `json:"hint,omitempty"`
}

// CardFlipContent is a deck of two-sided cards.
type CardFlipContent struct {
	Instructions string `json:"instructions,omitempty"`
	Cards        []Card `json:"cards"`
}

type Card struct {
	ID       string `json:"id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Category string `json:"category,omitempty"`
}

// WordPuzzleContent requests a word-search grid.
// GridSize is kept raw because producers send both 12 and "12x12".
type WordPuzzleContent struct {
	Theme    string          `json:"theme,omitempty"`
	Words    []PuzzleWord    `json:"words"`
	GridSize json.RawMessage `json:"gridSize,omitempty"`
}

// PuzzleWord is one requested word; Direction pins placement when set
// ("horizontal", "vertical" or "diagonal").
type PuzzleWord struct {
	Word      string `json:"word"`
	Hint      string `json:"hint,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type QuizContent struct {
	Questions []Question `json:"questions"`
}

type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// SortingContent covers both sorting (items → categories) and drag-drop
// (items → drop zones). Bucket is the item's declared category or zone id.
type SortingContent struct {
	Instructions string   `json:"instructions,omitempty"`
	Items        []Item   `json:"items"`
	Buckets      []Bucket `json:"buckets"`
}

type Item struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Bucket string `json:"bucket"`
}

type Bucket struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SequenceContent is a story whose events must be put back in order.
type SequenceContent struct {
	Title  string  `json:"title,omitempty"`
	Theme  string  `json:"theme,omitempty"`
	Events []Event `json:"events"`
}

type Event struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}
