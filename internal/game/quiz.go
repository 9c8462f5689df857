package game

import "github.com/wellplay/game-server/internal/schema"

type quiz struct {
	questions map[string]schema.Question
	maxScore  int
}

func newQuiz(c *schema.QuizContent, maxScore int) *quiz {
	q := &quiz{questions: make(map[string]schema.Question), maxScore: maxScore}
	if c != nil {
		for _, qu := range c.Questions {
			q.questions[qu.ID] = qu
		}
	}
	return q
}

// Apply overwrites the chosen option for one question.
func (q *quiz) Apply(p Progress, a Action) (Progress, error) {
	if a.Kind != ActionAnswer {
		return p, invalidAction("quiz does not accept %q", a.Kind)
	}
	qu, ok := q.questions[a.Unit]
	if !ok {
		return p, invalidAction("unknown question %q", a.Unit)
	}
	if !oneOf(qu.Options, a.Value) {
		return p, invalidAction("%q is not an option for question %q", a.Value, a.Unit)
	}
	p.Answers[a.Unit] = a.Value
	return p, nil
}

func (q *quiz) Correct(p Progress) int {
	n := 0
	for id, v := range p.Answers {
		if qu, ok := q.questions[id]; ok && schema.NormalizeAnswer(v) == schema.NormalizeAnswer(qu.CorrectAnswer) {
			n++
		}
	}
	return n
}

func (q *quiz) Answered(p Progress) int      { return len(p.Answers) }
func (q *quiz) Total() int                   { return len(q.questions) }
func (q *quiz) MaxScore() int                { return q.maxScore }
func (q *quiz) Ready(p Progress) bool        { return len(q.questions) > 0 && len(p.Answers) == len(q.questions) }
func (q *quiz) AutoComplete(p Progress) bool { return false }
