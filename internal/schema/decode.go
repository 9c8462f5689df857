package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultMaxScore = 100
	defaultVersion  = "1.0"
)

// Labels that generators like to put in front of the JSON body.
var leadingLabels = []string{
	"Here's the JSON:",
	"Here is the JSON:",
	"JSON:",
	"Response:",
	"Game:",
}

var (
	openFence  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	closeFence = regexp.MustCompile("\\s*```$")
)

// wireGame is the on-the-wire shape; content is dispatched by type afterwards.
type wireGame struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Instructions string          `json:"instructions"`
	Type         Type            `json:"type"`
	Difficulty   string          `json:"difficulty"`
	Category     string          `json:"category"`
	Version      string          `json:"version"`
	Scoring      Scoring         `json:"scoring"`
	Content      json.RawMessage `json:"content"`
}

// Decode parses a game schema from raw bytes, tolerating markdown code fences
// and leading labels, and validates it. Every failure wraps ErrSchemaInvalid.
func Decode(raw []byte) (*Game, error) {
	body := Clean(raw)
	if len(body) == 0 {
		return nil, invalid("empty document")
	}
	var w wireGame
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, invalid("json: %v", err)
	}

	g := &Game{
		ID:          strings.TrimSpace(w.ID),
		Title:       w.Title,
		Description: w.Description,
		Type:        Type(strings.ToLower(strings.TrimSpace(string(w.Type)))),
		Difficulty:  w.Difficulty,
		Category:    w.Category,
		Version:     w.Version,
		Scoring:     w.Scoring,
		Raw:         w.Content,
	}
	if g.Description == "" {
		g.Description = w.Instructions
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Version == "" {
		g.Version = defaultVersion
	}
	if g.Scoring.MaxScore == 0 {
		g.Scoring.MaxScore = defaultMaxScore
	}
	if !g.Type.Known() {
		return nil, fmt.Errorf("%w: %w %q", ErrSchemaInvalid, ErrUnknownType, w.Type)
	}
	if len(bytes.TrimSpace(w.Content)) == 0 || string(bytes.TrimSpace(w.Content)) == "null" {
		return nil, invalid("%s: content is missing", g.Type)
	}
	if err := decodeContent(g); err != nil {
		return nil, err
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Clean strips surrounding whitespace, markdown code fences and common labels.
func Clean(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	for _, p := range leadingLabels {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(s[len(p):])
		}
	}
	s = openFence.ReplaceAllString(s, "")
	s = closeFence.ReplaceAllString(s, "")
	return []byte(strings.TrimSpace(s))
}

// MarshalJSON writes the game back in wire form, content included.
func (g Game) MarshalJSON() ([]byte, error) {
	content := g.Raw
	if len(content) == 0 {
		content = json.RawMessage("null")
	}
	return json.Marshal(wireGame{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Type:        g.Type,
		Difficulty:  g.Difficulty,
		Category:    g.Category,
		Version:     g.Version,
		Scoring:     g.Scoring,
		Content:     content,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON and runs the full Decode path.
func (g *Game) UnmarshalJSON(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*g = *decoded
	return nil
}

/* ------------------------- per-type content shapes ------------------------ */

type wireMatching struct {
	Instructions string `json:"instructions"`
	Pairs        []Pair `json:"pairs"`
	LeftItems    []struct {
		ID      string `json:"id"`
		Text    string `json:"text"`
		MatchID string `json:"matchId"`
	} `json:"leftItems"`
	RightItems []struct {
		ID      string `json:"id"`
		Text    string `json:"text"`
		MatchID string `json:"matchId"`
	} `json:"rightItems"`
}

type wireSorting struct {
	Instructions string `json:"instructions"`
	Categories   []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label"`
	} `json:"categories"`
	DropZones []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Name  string `json:"name"`
	} `json:"dropZones"`
	Items []struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		Content     string `json:"content"`
		Category    string `json:"category"`
		CorrectZone string `json:"correctZone"`
	} `json:"items"`
}

type wireSequence struct {
	Title  string `json:"title"`
	Theme  string `json:"theme"`
	Events []struct {
		ID           string `json:"id"`
		Text         string `json:"text"`
		Description  string `json:"description"`
		Order        int    `json:"order"`
		CorrectOrder int    `json:"correctOrder"`
	} `json:"events"`
}

func decodeContent(g *Game) error {
	var err error
	switch g.Type {
	case TypeMatching:
		var w wireMatching
		if err = json.Unmarshal(g.Raw, &w); err == nil {
			g.Matching = matchingFromWire(w)
		}
	case TypeFillBlank:
		g.FillBlank = &FillBlankContent{}
		err = json.Unmarshal(g.Raw, g.FillBlank)
	case TypeCardFlip:
		g.CardFlip = &CardFlipContent{}
		err = json.Unmarshal(g.Raw, g.CardFlip)
	case TypeWordPuzzle:
		g.WordPuzzle = &WordPuzzleContent{}
		err = json.Unmarshal(g.Raw, g.WordPuzzle)
	case TypeQuiz:
		g.Quiz = &QuizContent{}
		err = json.Unmarshal(g.Raw, g.Quiz)
	case TypeSorting, TypeDragDrop:
		var w wireSorting
		if err = json.Unmarshal(g.Raw, &w); err == nil {
			g.Sorting = sortingFromWire(w)
		}
	case TypeStorySequence:
		var w wireSequence
		if err = json.Unmarshal(g.Raw, &w); err == nil {
			g.Sequence = sequenceFromWire(w)
		}
	default:
		// Not playable: validated against the raw object only.
		var probe map[string]json.RawMessage
		err = json.Unmarshal(g.Raw, &probe)
	}
	if err != nil {
		return invalid("%s content: %v", g.Type, err)
	}
	return nil
}

// matchingFromWire accepts either explicit pairs or left/right item lists
// joined on matchId.
func matchingFromWire(w wireMatching) *MatchingContent {
	mc := &MatchingContent{Instructions: w.Instructions, Pairs: w.Pairs}
	if len(mc.Pairs) > 0 || len(w.LeftItems) == 0 {
		return mc
	}
	rights := make(map[string]string, len(w.RightItems))
	for _, r := range w.RightItems {
		rights[r.MatchID] = r.Text
	}
	for _, l := range w.LeftItems {
		id := l.MatchID
		if id == "" {
			id = l.ID
		}
		mc.Pairs = append(mc.Pairs, Pair{ID: id, Left: l.Text, Right: rights[l.MatchID]})
	}
	return mc
}

func sortingFromWire(w wireSorting) *SortingContent {
	sc := &SortingContent{Instructions: w.Instructions}
	for _, c := range w.Categories {
		sc.Buckets = append(sc.Buckets, Bucket{ID: c.ID, Label: firstNonEmpty(c.Label, c.Name)})
	}
	for _, z := range w.DropZones {
		sc.Buckets = append(sc.Buckets, Bucket{ID: z.ID, Label: firstNonEmpty(z.Label, z.Name)})
	}
	for _, it := range w.Items {
		sc.Items = append(sc.Items, Item{
			ID:     it.ID,
			Text:   firstNonEmpty(it.Text, it.Content),
			Bucket: sc.bucketID(firstNonEmpty(it.Category, it.CorrectZone)),
		})
	}
	return sc
}

// bucketID resolves a reference that may name a bucket by label instead of id.
func (sc *SortingContent) bucketID(ref string) string {
	for _, b := range sc.Buckets {
		if b.ID == ref {
			return ref
		}
	}
	for _, b := range sc.Buckets {
		if strings.EqualFold(b.Label, ref) {
			return b.ID
		}
	}
	return ref
}

func sequenceFromWire(w wireSequence) *SequenceContent {
	sc := &SequenceContent{Title: w.Title, Theme: w.Theme}
	for _, e := range w.Events {
		order := e.Order
		if order == 0 {
			order = e.CorrectOrder
		}
		sc.Events = append(sc.Events, Event{ID: e.ID, Text: firstNonEmpty(e.Text, e.Description), Order: order})
	}
	return sc
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
