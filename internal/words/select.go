package words

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidSelection is returned for gestures that are not one straight,
// contiguous run of at least two cells.
var ErrInvalidSelection = errors.New("words: invalid selection")

type orientation int

const (
	orientRow orientation = iota
	orientCol
	orientDiag
)

// Resolve turns a drag gesture into the letters it covers, in reading order
// (left-to-right, top-to-bottom, diagonals by row then column).
// The selection is start, end and every cell in path; it must be a straight
// horizontal, vertical or diagonal run without gaps.
func Resolve(grid [][]string, start, end Cell, path []Cell) (string, error) {
	cells := dedupe(append([]Cell{start, end}, path...))
	if len(cells) < 2 {
		return "", ErrInvalidSelection
	}
	for _, c := range cells {
		if c.Row < 0 || c.Row >= len(grid) || c.Col < 0 || c.Col >= len(grid[c.Row]) {
			return "", ErrInvalidSelection
		}
	}
	o, ok := straight(cells)
	if !ok {
		return "", ErrInvalidSelection
	}
	sortCells(cells, o)
	if !contiguous(cells, o) {
		return "", ErrInvalidSelection
	}
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(grid[c.Row][c.Col])
	}
	return b.String(), nil
}

// Line expands start→end into every cell between them, inclusive.
// Used when a client only reports the two ends of a drag.
func Line(start, end Cell) ([]Cell, error) {
	dr, dc := end.Row-start.Row, end.Col-start.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return nil, ErrInvalidSelection
	}
	steps := max(abs(dr), abs(dc))
	out := make([]Cell, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, Cell{Row: start.Row + sign(dr)*i, Col: start.Col + sign(dc)*i})
	}
	return out, nil
}

// Match finds the placed word spelled by candidate forwards or backwards.
// Words not yet in found win over found ones, then an exact spelling wins
// over a reversed one, so words that reverse each other (STOP, POTS) can
// both be credited.
func Match(placed []PlacedWord, candidate string, found map[string]bool) (int, bool) {
	fwd := Normalize(candidate)
	if fwd == "" {
		return -1, false
	}
	rev := Reverse(fwd)
	best, rank := -1, 0
	for i, w := range placed {
		var r int
		switch w.Word {
		case fwd:
			r = 2
		case rev:
			r = 1
		default:
			continue
		}
		if !found[w.Word] {
			r += 2
		}
		if r > rank {
			best, rank = i, r
		}
	}
	return best, best >= 0
}

// Locate returns the placed word covering exactly the selected cells.
func Locate(placed []PlacedWord, selected []Cell) (int, bool) {
	set := make(map[Cell]struct{}, len(selected))
	for _, c := range selected {
		set[c] = struct{}{}
	}
	for i, w := range placed {
		if len(w.Cells) != len(set) {
			continue
		}
		all := true
		for _, l := range w.Cells {
			if _, ok := set[Cell{Row: l.Row, Col: l.Col}]; !ok {
				all = false
				break
			}
		}
		if all {
			return i, true
		}
	}
	return -1, false
}

// Reverse returns s with its characters in reverse order.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func straight(cells []Cell) (orientation, bool) {
	first := cells[0]
	sameRow, sameCol := true, true
	for _, c := range cells[1:] {
		sameRow = sameRow && c.Row == first.Row
		sameCol = sameCol && c.Col == first.Col
	}
	switch {
	case sameRow:
		return orientRow, true
	case sameCol:
		return orientCol, true
	}

	// Diagonal: every cell sits on the same ±45° line through the first one.
	slope := 0
	for _, c := range cells[1:] {
		dr, dc := c.Row-first.Row, c.Col-first.Col
		if dr == 0 || abs(dr) != abs(dc) {
			return 0, false
		}
		s := sign(dr) * sign(dc)
		if slope == 0 {
			slope = s
		} else if s != slope {
			return 0, false
		}
	}
	return orientDiag, true
}

func sortCells(cells []Cell, o orientation) {
	sort.Slice(cells, func(i, j int) bool {
		switch o {
		case orientRow:
			return cells[i].Col < cells[j].Col
		case orientCol:
			return cells[i].Row < cells[j].Row
		}
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
}

// contiguous expects cells sorted in reading order.
func contiguous(cells []Cell, o orientation) bool {
	for i := 1; i < len(cells); i++ {
		a, b := cells[i-1], cells[i]
		switch o {
		case orientRow:
			if b.Col-a.Col != 1 {
				return false
			}
		default:
			if b.Row-a.Row != 1 {
				return false
			}
		}
	}
	return true
}

func dedupe(cells []Cell) []Cell {
	seen := make(map[Cell]struct{}, len(cells))
	out := cells[:0]
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
