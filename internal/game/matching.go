package game

import "github.com/wellplay/game-server/internal/schema"

// matchingMaxScore: matching reports an absolute percentage and ignores
// scoring.maxScore.
const matchingMaxScore = 100

// matching pairs a left unit with a right unit. Both sides are addressed by
// their source pair id, so a match is correct iff the ids are equal; display
// text plays no part.
type matching struct {
	pairs map[string]struct{}
	n     int
}

func newMatching(c *schema.MatchingContent) *matching {
	m := &matching{pairs: make(map[string]struct{})}
	if c != nil {
		for _, p := range c.Pairs {
			m.pairs[p.ID] = struct{}{}
		}
		m.n = len(c.Pairs)
	}
	return m
}

// Apply: a new right overwrites, the same right again toggles the match off,
// an empty value clears it. A right already held by another left moves here.
func (m *matching) Apply(p Progress, a Action) (Progress, error) {
	if a.Kind != ActionMatch {
		return p, invalidAction("matching does not accept %q", a.Kind)
	}
	if _, ok := m.pairs[a.Unit]; !ok {
		return p, invalidAction("unknown left item %q", a.Unit)
	}
	if a.Value == "" {
		delete(p.Answers, a.Unit)
		return p, nil
	}
	if _, ok := m.pairs[a.Value]; !ok {
		return p, invalidAction("unknown right item %q", a.Value)
	}
	if p.Answers[a.Unit] == a.Value {
		delete(p.Answers, a.Unit)
		return p, nil
	}
	for left, right := range p.Answers {
		if right == a.Value {
			delete(p.Answers, left)
		}
	}
	p.Answers[a.Unit] = a.Value
	return p, nil
}

func (m *matching) Correct(p Progress) int {
	n := 0
	for left, right := range p.Answers {
		if left == right {
			n++
		}
	}
	return n
}

func (m *matching) Answered(p Progress) int      { return len(p.Answers) }
func (m *matching) Total() int                   { return m.n }
func (m *matching) MaxScore() int                { return matchingMaxScore }
func (m *matching) Ready(p Progress) bool        { return m.n > 0 && len(p.Answers) == m.n }
func (m *matching) AutoComplete(p Progress) bool { return false }
