package game

import "github.com/wellplay/game-server/internal/schema"

// cardFlip scores exploration: every card turned at least once counts.
type cardFlip struct {
	ids      []string
	known    map[string]struct{}
	maxScore int
}

func newCardFlip(c *schema.CardFlipContent, maxScore int) *cardFlip {
	cf := &cardFlip{known: make(map[string]struct{}), maxScore: maxScore}
	if c != nil {
		for _, card := range c.Cards {
			cf.ids = append(cf.ids, card.ID)
			cf.known[card.ID] = struct{}{}
		}
	}
	return cf
}

// Apply: flip toggles one card's face and marks it viewed. flip-all turns
// every card to the back, or all back to the front when they already are.
// Viewed never shrinks.
func (cf *cardFlip) Apply(p Progress, a Action) (Progress, error) {
	switch a.Kind {
	case ActionFlip:
		if _, ok := cf.known[a.Unit]; !ok {
			return p, invalidAction("unknown card %q", a.Unit)
		}
		if p.Flipped[a.Unit] {
			delete(p.Flipped, a.Unit)
		} else {
			p.Flipped[a.Unit] = true
		}
		p.Viewed[a.Unit] = true
		return p, nil
	case ActionFlipAll:
		if len(p.Flipped) == len(cf.ids) {
			p.Flipped = make(map[string]bool)
			return p, nil
		}
		for _, id := range cf.ids {
			p.Flipped[id] = true
			p.Viewed[id] = true
		}
		return p, nil
	}
	return p, invalidAction("card-flip does not accept %q", a.Kind)
}

func (cf *cardFlip) Correct(p Progress) int       { return len(p.Viewed) }
func (cf *cardFlip) Answered(p Progress) int      { return len(p.Viewed) }
func (cf *cardFlip) Total() int                   { return len(cf.ids) }
func (cf *cardFlip) MaxScore() int                { return cf.maxScore }
func (cf *cardFlip) Ready(p Progress) bool        { return len(p.Viewed) > 0 }
func (cf *cardFlip) AutoComplete(p Progress) bool { return false }
