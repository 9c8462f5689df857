package game

import (
	"strings"

	"github.com/wellplay/game-server/internal/schema"
)

// fillBlank checks typed or chosen text against each blank's answer,
// trimmed and case-folded.
type fillBlank struct {
	blanks   map[string]schema.Blank
	maxScore int
}

func newFillBlank(c *schema.FillBlankContent, maxScore int) *fillBlank {
	f := &fillBlank{blanks: make(map[string]schema.Blank), maxScore: maxScore}
	if c != nil {
		for _, p := range c.Passages {
			for _, b := range p.Blanks {
				f.blanks[b.ID] = b
			}
		}
	}
	return f
}

// Apply overwrites the blank's answer; blank text clears it. A blank with
// options only accepts one of them.
func (f *fillBlank) Apply(p Progress, a Action) (Progress, error) {
	if a.Kind != ActionAnswer {
		return p, invalidAction("fill-blank does not accept %q", a.Kind)
	}
	b, ok := f.blanks[a.Unit]
	if !ok {
		return p, invalidAction("unknown blank %q", a.Unit)
	}
	if strings.TrimSpace(a.Value) == "" {
		delete(p.Answers, a.Unit)
		return p, nil
	}
	if len(b.Options) > 0 && !oneOf(b.Options, a.Value) {
		return p, invalidAction("%q is not an option for blank %q", a.Value, a.Unit)
	}
	p.Answers[a.Unit] = a.Value
	return p, nil
}

func (f *fillBlank) Correct(p Progress) int {
	n := 0
	for id, v := range p.Answers {
		if b, ok := f.blanks[id]; ok && schema.NormalizeAnswer(v) == schema.NormalizeAnswer(b.CorrectAnswer) {
			n++
		}
	}
	return n
}

func (f *fillBlank) Answered(p Progress) int      { return len(p.Answers) }
func (f *fillBlank) Total() int                   { return len(f.blanks) }
func (f *fillBlank) MaxScore() int                { return f.maxScore }
func (f *fillBlank) Ready(p Progress) bool        { return len(f.blanks) > 0 && len(p.Answers) == len(f.blanks) }
func (f *fillBlank) AutoComplete(p Progress) bool { return false }

func oneOf(options []string, v string) bool {
	n := schema.NormalizeAnswer(v)
	for _, o := range options {
		if schema.NormalizeAnswer(o) == n {
			return true
		}
	}
	return false
}
