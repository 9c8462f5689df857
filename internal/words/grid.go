// internal/words/grid.go
//
// Word-search grid generation.
// Responsibilities:
//   - Normalise the requested grid size (number or "12x12" string) into [10,20].
//   - Place target words longest-first with a bounded number of random attempts
//     per direction; overlaps are legal only on identical letters.
//   - Record every placed word's exact cell path; report unplaced words as failed.
//   - Backfill the remaining cells with uniformly random letters A–Z.
//
// Notes:
//   - Randomness comes from the caller's *rand.Rand so tests can replay a grid.
//   - A placement is committed whole or not at all; a failed attempt never
//     touches the grid.

package words

import (
	"bytes"
	"errors"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	MinSize     = 10
	MaxSize     = 20
	DefaultSize = 12

	// MaxAttempts is the random-start budget per word per direction.
	MaxAttempts = 100
)

// ErrEmptyWordList is returned when there is nothing to place.
var ErrEmptyWordList = errors.New("words: empty word list")

// Direction of a placed word, read from its start cell.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
	Diagonal   Direction = "diagonal" // down-right
)

// step returns the row/col delta for one letter in direction d.
func (d Direction) step() (int, int) {
	switch d {
	case Vertical:
		return 1, 0
	case Diagonal:
		return 1, 1
	default:
		return 0, 1
	}
}

// Cell is a grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Letter is a cell together with the letter it holds.
type Letter struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

// PlacedWord is a word that made it onto the grid, with its concrete path.
type PlacedWord struct {
	Word      string    `json:"word"`
	Direction Direction `json:"direction"`
	StartRow  int       `json:"startRow"`
	StartCol  int       `json:"startCol"`
	Cells     []Letter  `json:"cells"`
}

// Request is one word to place. An empty Direction lets the generator try
// horizontal then vertical.
type Request struct {
	Word      string
	Direction Direction
}

// Puzzle is the generator output.
type Puzzle struct {
	Size   int          `json:"size"`
	Grid   [][]string   `json:"grid"`
	Placed []PlacedWord `json:"placed"`
	Failed []string     `json:"failed,omitempty"`
}

var firstInt = regexp.MustCompile(`\d+`)

// ParseSize reads a grid size from a raw JSON value (12, "12" or "12x12")
// and clamps it. Anything unparsable or out of range becomes DefaultSize.
func ParseSize(raw []byte) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return DefaultSize
	}
	m := firstInt.Find(raw)
	if m == nil {
		return DefaultSize
	}
	n, err := strconv.Atoi(string(m))
	if err != nil {
		return DefaultSize
	}
	return ClampSize(n)
}

// ClampSize maps out-of-range sizes to DefaultSize.
func ClampSize(n int) int {
	if n < MinSize || n > MaxSize {
		return DefaultSize
	}
	return n
}

// Normalize upper-cases a word and drops everything but A–Z.
func Normalize(word string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(word) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Generate builds a size×size puzzle from reqs. Duplicate words (after
// normalisation) are placed once. Words that exhaust their attempt budget in
// every allowed direction end up in Puzzle.Failed.
func Generate(rng *rand.Rand, reqs []Request, size int) (*Puzzle, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyWordList
	}
	size = ClampSize(size)

	todo := make([]Request, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		w := Normalize(r.Word)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		todo = append(todo, Request{Word: w, Direction: r.Direction})
	}
	if len(todo) == 0 {
		return nil, ErrEmptyWordList
	}

	// Longer words have fewer legal starts; place them first.
	sort.SliceStable(todo, func(i, j int) bool { return len(todo[i].Word) > len(todo[j].Word) })

	p := &Puzzle{Size: size, Grid: make([][]string, size)}
	for i := range p.Grid {
		p.Grid[i] = make([]string, size)
	}

	for _, r := range todo {
		placed, ok := p.tryPlace(rng, r)
		if !ok {
			p.Failed = append(p.Failed, r.Word)
			continue
		}
		p.Placed = append(p.Placed, placed)
	}

	for row := range p.Grid {
		for col := range p.Grid[row] {
			if p.Grid[row][col] == "" {
				p.Grid[row][col] = string(rune('A' + rng.Intn(26)))
			}
		}
	}
	return p, nil
}

// directions returns the directions to try for a request.
func directions(d Direction) []Direction {
	switch d {
	case Horizontal, Vertical, Diagonal:
		return []Direction{d}
	}
	return []Direction{Horizontal, Vertical}
}

func (p *Puzzle) tryPlace(rng *rand.Rand, r Request) (PlacedWord, bool) {
	n := len(r.Word)
	for _, dir := range directions(r.Direction) {
		dr, dc := dir.step()
		maxRow := p.Size - 1 - dr*(n-1)
		maxCol := p.Size - 1 - dc*(n-1)
		if maxRow < 0 || maxCol < 0 {
			continue
		}
		for attempt := 0; attempt < MaxAttempts; attempt++ {
			row := rng.Intn(maxRow + 1)
			col := rng.Intn(maxCol + 1)
			if p.canPlace(r.Word, dir, row, col) {
				return p.place(r.Word, dir, row, col), true
			}
		}
	}
	return PlacedWord{}, false
}

// canPlace reports whether every target cell is empty or already holds the same letter.
func (p *Puzzle) canPlace(word string, dir Direction, row, col int) bool {
	dr, dc := dir.step()
	for i := 0; i < len(word); i++ {
		r, c := row+dr*i, col+dc*i
		if r < 0 || r >= p.Size || c < 0 || c >= p.Size {
			return false
		}
		if cur := p.Grid[r][c]; cur != "" && cur != word[i:i+1] {
			return false
		}
	}
	return true
}

func (p *Puzzle) place(word string, dir Direction, row, col int) PlacedWord {
	dr, dc := dir.step()
	pw := PlacedWord{Word: word, Direction: dir, StartRow: row, StartCol: col, Cells: make([]Letter, 0, len(word))}
	for i := 0; i < len(word); i++ {
		r, c := row+dr*i, col+dc*i
		l := word[i : i+1]
		p.Grid[r][c] = l
		pw.Cells = append(pw.Cells, Letter{Row: r, Col: c, Letter: l})
	}
	return pw
}

// Remaining returns the placed words not present in found.
func (p *Puzzle) Remaining(found map[string]bool) []PlacedWord {
	out := make([]PlacedWord, 0, len(p.Placed))
	for _, w := range p.Placed {
		if !found[w.Word] {
			out = append(out, w)
		}
	}
	return out
}
