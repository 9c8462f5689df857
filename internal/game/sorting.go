package game

import "github.com/wellplay/game-server/internal/schema"

// sorting serves both sorting (categories) and drag-drop (drop zones):
// each item must land in its declared bucket.
type sorting struct {
	want     map[string]string // item → bucket
	buckets  map[string]struct{}
	maxScore int
}

func newSorting(c *schema.SortingContent, maxScore int) *sorting {
	s := &sorting{want: make(map[string]string), buckets: make(map[string]struct{}), maxScore: maxScore}
	if c != nil {
		for _, b := range c.Buckets {
			s.buckets[b.ID] = struct{}{}
		}
		for _, it := range c.Items {
			s.want[it.ID] = it.Bucket
		}
	}
	return s
}

// Apply moves an item into a bucket, overwriting; an empty bucket takes it out.
func (s *sorting) Apply(p Progress, a Action) (Progress, error) {
	if a.Kind != ActionAssign {
		return p, invalidAction("sorting does not accept %q", a.Kind)
	}
	if _, ok := s.want[a.Unit]; !ok {
		return p, invalidAction("unknown item %q", a.Unit)
	}
	if a.Value == "" {
		delete(p.Answers, a.Unit)
		return p, nil
	}
	if _, ok := s.buckets[a.Value]; !ok {
		return p, invalidAction("unknown bucket %q", a.Value)
	}
	p.Answers[a.Unit] = a.Value
	return p, nil
}

func (s *sorting) Correct(p Progress) int {
	n := 0
	for item, bucket := range p.Answers {
		if s.want[item] == bucket {
			n++
		}
	}
	return n
}

func (s *sorting) Answered(p Progress) int      { return len(p.Answers) }
func (s *sorting) Total() int                   { return len(s.want) }
func (s *sorting) MaxScore() int                { return s.maxScore }
func (s *sorting) Ready(p Progress) bool        { return len(s.want) > 0 && len(p.Answers) == len(s.want) }
func (s *sorting) AutoComplete(p Progress) bool { return false }
