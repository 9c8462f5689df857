package game

import "github.com/wellplay/game-server/internal/words"

// wordSearch credits placed words found by dragging across the grid or by
// typing them. The denominator is the placed words, never the requested ones.
type wordSearch struct {
	pz       *words.Puzzle
	maxScore int
}

func newWordSearch(pz *words.Puzzle, maxScore int) *wordSearch {
	return &wordSearch{pz: pz, maxScore: maxScore}
}

// Apply marks the matched placed word as found. A drag over a word's own
// cells credits that word; otherwise the letters are matched by spelling.
// Finding a word twice is a no-op.
func (ws *wordSearch) Apply(p Progress, a Action) (Progress, error) {
	var candidate string
	switch a.Kind {
	case ActionSelect:
		if a.Start == nil || a.End == nil {
			return p, invalidAction("selection needs start and end")
		}
		path := a.Path
		if len(path) == 0 {
			line, err := words.Line(*a.Start, *a.End)
			if err != nil {
				return p, invalidAction("%v", err)
			}
			path = line
		}
		s, err := words.Resolve(ws.pz.Grid, *a.Start, *a.End, path)
		if err != nil {
			return p, invalidAction("%v", err)
		}
		if i, ok := words.Locate(ws.pz.Placed, append([]words.Cell{*a.Start, *a.End}, path...)); ok {
			p.Found[ws.pz.Placed[i].Word] = true
			return p, nil
		}
		candidate = s
	case ActionGuess:
		candidate = a.Value
	default:
		return p, invalidAction("word-search does not accept %q", a.Kind)
	}

	i, ok := words.Match(ws.pz.Placed, candidate, p.Found)
	if !ok {
		return p, invalidAction("%q is not a hidden word", candidate)
	}
	p.Found[ws.pz.Placed[i].Word] = true
	return p, nil
}

func (ws *wordSearch) Correct(p Progress) int {
	n := 0
	for _, w := range ws.pz.Placed {
		if p.Found[w.Word] {
			n++
		}
	}
	return n
}

func (ws *wordSearch) Answered(p Progress) int { return ws.Correct(p) }
func (ws *wordSearch) Total() int              { return len(ws.pz.Placed) }
func (ws *wordSearch) MaxScore() int           { return ws.maxScore }
func (ws *wordSearch) Ready(p Progress) bool   { return ws.Correct(p) > 0 }

// AutoComplete fires the moment the last placed word is found.
func (ws *wordSearch) AutoComplete(p Progress) bool {
	return len(ws.pz.Placed) > 0 && ws.Correct(p) == len(ws.pz.Placed)
}
