package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrSchemaInvalid wraps every structural problem with a game description.
	ErrSchemaInvalid = errors.New("schema invalid")
	// ErrUnknownType is reported (inside ErrSchemaInvalid) for an unrecognised type tag.
	ErrUnknownType = errors.New("unknown game type")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaInvalid, fmt.Sprintf(format, args...))
}

// Validate checks that the typed content is complete for the declared type.
// It fails fast rather than letting a session render a degenerate game.
func Validate(g *Game) error {
	if g == nil {
		return invalid("nil game")
	}
	if g.Scoring.MaxScore < 0 {
		return invalid("scoring.maxScore must not be negative")
	}
	switch g.Type {
	case TypeMatching:
		return validateMatching(g.Matching)
	case TypeFillBlank:
		return validateFillBlank(g.FillBlank)
	case TypeCardFlip:
		return validateCardFlip(g.CardFlip)
	case TypeWordPuzzle:
		return validateWordPuzzle(g.WordPuzzle)
	case TypeQuiz:
		return validateQuiz(g.Quiz)
	case TypeSorting, TypeDragDrop:
		return validateSorting(g.Type, g.Sorting)
	case TypeStorySequence:
		return validateSequence(g.Sequence)
	case TypeMemoryMatch:
		return requireFields(g.Type, g.Raw, "pairs")
	case TypePuzzleAssembly:
		return requireFields(g.Type, g.Raw, "pieces", "targetImage", "gridSize")
	case TypeAnxietyAdventure:
		return requireFields(g.Type, g.Raw, "startId", "scenarios")
	}
	return fmt.Errorf("%w: %w %q", ErrSchemaInvalid, ErrUnknownType, g.Type)
}

func validateMatching(c *MatchingContent) error {
	if c == nil || len(c.Pairs) == 0 {
		return invalid("matching: no pairs")
	}
	seen := make(map[string]struct{}, len(c.Pairs))
	for i, p := range c.Pairs {
		if p.ID == "" {
			return invalid("matching: pair %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return invalid("matching: duplicate pair id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if strings.TrimSpace(p.Left) == "" || strings.TrimSpace(p.Right) == "" {
			return invalid("matching: pair %q is missing a side", p.ID)
		}
	}
	return nil
}

func validateFillBlank(c *FillBlankContent) error {
	if c == nil || len(c.Passages) == 0 {
		return invalid("fill-blank: no passages")
	}
	seen := map[string]struct{}{}
	for pi, p := range c.Passages {
		if len(p.Blanks) == 0 {
			return invalid("fill-blank: passage %d has no blanks", pi)
		}
		for _, b := range p.Blanks {
			if b.ID == "" {
				return invalid("fill-blank: passage %d has a blank without id", pi)
			}
			if _, dup := seen[b.ID]; dup {
				return invalid("fill-blank: duplicate blank id %q", b.ID)
			}
			seen[b.ID] = struct{}{}
			if b.Position < 0 || b.Position > utf8.RuneCountInString(p.Text) {
				return invalid("fill-blank: blank %q position %d outside passage", b.ID, b.Position)
			}
			if NormalizeAnswer(b.CorrectAnswer) == "" {
				return invalid("fill-blank: blank %q has no correct answer", b.ID)
			}
			if len(b.Options) > 0 && !containsNormalized(b.Options, b.CorrectAnswer) {
				return invalid("fill-blank: blank %q answer not among its options", b.ID)
			}
		}
	}
	return nil
}

func validateCardFlip(c *CardFlipContent) error {
	if c == nil || len(c.Cards) == 0 {
		return invalid("card-flip: no cards")
	}
	seen := make(map[string]struct{}, len(c.Cards))
	for i, card := range c.Cards {
		if card.ID == "" {
			return invalid("card-flip: card %d has no id", i)
		}
		if _, dup := seen[card.ID]; dup {
			return invalid("card-flip: duplicate card id %q", card.ID)
		}
		seen[card.ID] = struct{}{}
	}
	return nil
}

func validateWordPuzzle(c *WordPuzzleContent) error {
	if c == nil || len(c.Words) == 0 {
		return invalid("word-puzzle: no words")
	}
	for i, w := range c.Words {
		letters := 0
		for _, r := range w.Word {
			switch {
			case unicode.IsLetter(r) && r < unicode.MaxASCII:
				letters++
			case r == ' ' || r == '-' || r == '\'':
			default:
				return invalid("word-puzzle: word %d (%q) has non-letter characters", i, w.Word)
			}
		}
		if letters < 2 {
			return invalid("word-puzzle: word %d (%q) is too short", i, w.Word)
		}
		switch strings.ToLower(w.Direction) {
		case "", "horizontal", "vertical", "diagonal":
		default:
			return invalid("word-puzzle: word %q has unknown direction %q", w.Word, w.Direction)
		}
	}
	return nil
}

func validateQuiz(c *QuizContent) error {
	if c == nil || len(c.Questions) == 0 {
		return invalid("quiz: no questions")
	}
	seen := map[string]struct{}{}
	for i, q := range c.Questions {
		if q.ID == "" {
			return invalid("quiz: question %d has no id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return invalid("quiz: duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) < 2 {
			return invalid("quiz: question %q needs at least two options", q.ID)
		}
		if !containsNormalized(q.Options, q.CorrectAnswer) {
			return invalid("quiz: question %q answer not among its options", q.ID)
		}
	}
	return nil
}

func validateSorting(t Type, c *SortingContent) error {
	if c == nil || len(c.Items) == 0 {
		return invalid("%s: no items", t)
	}
	if len(c.Buckets) == 0 {
		return invalid("%s: no categories or drop zones", t)
	}
	buckets := make(map[string]struct{}, len(c.Buckets))
	for _, b := range c.Buckets {
		if b.ID == "" {
			return invalid("%s: bucket without id", t)
		}
		buckets[b.ID] = struct{}{}
	}
	seen := map[string]struct{}{}
	for i, it := range c.Items {
		if it.ID == "" {
			return invalid("%s: item %d has no id", t, i)
		}
		if _, dup := seen[it.ID]; dup {
			return invalid("%s: duplicate item id %q", t, it.ID)
		}
		seen[it.ID] = struct{}{}
		if _, ok := buckets[it.Bucket]; !ok {
			return invalid("%s: item %q references unknown bucket %q", t, it.ID, it.Bucket)
		}
	}
	return nil
}

func validateSequence(c *SequenceContent) error {
	if c == nil || len(c.Events) < 2 {
		return invalid("story-sequence: need at least two events")
	}
	ids := map[string]struct{}{}
	orders := map[int]struct{}{}
	for i, e := range c.Events {
		if e.ID == "" {
			return invalid("story-sequence: event %d has no id", i)
		}
		if _, dup := ids[e.ID]; dup {
			return invalid("story-sequence: duplicate event id %q", e.ID)
		}
		ids[e.ID] = struct{}{}
		if _, dup := orders[e.Order]; dup {
			return invalid("story-sequence: duplicate order %d", e.Order)
		}
		orders[e.Order] = struct{}{}
	}
	return nil
}

func requireFields(t Type, raw json.RawMessage, fields ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return invalid("%s content: %v", t, err)
	}
	for _, f := range fields {
		v, ok := obj[f]
		if !ok || string(v) == "null" {
			return invalid("%s: missing field %q", t, f)
		}
	}
	return nil
}

// NormalizeAnswer is the comparison form for typed and chosen answers:
// trimmed and case-folded.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsNormalized(list []string, v string) bool {
	n := NormalizeAnswer(v)
	for _, o := range list {
		if NormalizeAnswer(o) == n {
			return true
		}
	}
	return false
}
