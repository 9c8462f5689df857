package game

import (
	"sort"

	"github.com/wellplay/game-server/internal/schema"
)

// sequence scores a submitted ordering: one point per event sitting in its
// declared position.
type sequence struct {
	want     []string // event ids in declared order
	maxScore int
}

func newSequence(c *schema.SequenceContent, maxScore int) *sequence {
	s := &sequence{maxScore: maxScore}
	if c == nil {
		return s
	}
	events := append([]schema.Event(nil), c.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Order < events[j].Order })
	for _, e := range events {
		s.want = append(s.want, e.ID)
	}
	return s
}

// Apply replaces the whole ordering. It must be a permutation of the event ids.
func (s *sequence) Apply(p Progress, a Action) (Progress, error) {
	if a.Kind != ActionOrder {
		return p, invalidAction("story-sequence does not accept %q", a.Kind)
	}
	if len(a.Order) != len(s.want) {
		return p, invalidAction("order has %d events, want %d", len(a.Order), len(s.want))
	}
	known := make(map[string]bool, len(s.want))
	for _, id := range s.want {
		known[id] = true
	}
	for _, id := range a.Order {
		if !known[id] {
			return p, invalidAction("order repeats or invents event %q", id)
		}
		delete(known, id)
	}
	p.Order = append([]string(nil), a.Order...)
	return p, nil
}

func (s *sequence) Correct(p Progress) int {
	n := 0
	for i, id := range p.Order {
		if i < len(s.want) && s.want[i] == id {
			n++
		}
	}
	return n
}

func (s *sequence) Answered(p Progress) int      { return len(p.Order) }
func (s *sequence) Total() int                   { return len(s.want) }
func (s *sequence) MaxScore() int                { return s.maxScore }
func (s *sequence) Ready(p Progress) bool        { return len(s.want) > 0 && len(p.Order) == len(s.want) }
func (s *sequence) AutoComplete(p Progress) bool { return false }
