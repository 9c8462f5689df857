package game

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/wellplay/game-server/internal/schema"
	"github.com/wellplay/game-server/internal/words"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mustGame(t *testing.T, doc string) *schema.Game {
	t.Helper()
	g, err := schema.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return g
}

func mustSession(t *testing.T, doc string) Session {
	t.Helper()
	s, err := NewSession(mustGame(t, doc), rand.New(rand.NewSource(1)), t0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return *s
}

func mustApply(t *testing.T, s Session, a Action) Session {
	t.Helper()
	next, err := Apply(s, a, t0.Add(time.Second))
	if err != nil {
		t.Fatalf("Apply(%+v): %v", a, err)
	}
	return next
}

const matching3 = `{"type":"matching","title":"Feelings","scoring":{"maxScore":30},"content":{"pairs":[
  {"id":"p1","left":"Happy","right":"Smile"},
  {"id":"p2","left":"Sad","right":"Tears"},
  {"id":"p3","left":"Calm","right":"Breath"}]}}`

func TestMatching_AllCorrect(t *testing.T) {
	s := mustSession(t, matching3)
	if s.State.Status != StatusNotStarted {
		t.Fatalf("Status %q, want not-started", s.State.Status)
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		s = mustApply(t, s, Action{Kind: ActionMatch, Unit: id, Value: id})
	}
	s, r, err := Complete(s, t0.Add(42*time.Second))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// matching reports a percentage regardless of scoring.maxScore
	if r.Score != 100 || r.MaxScore != 100 {
		t.Errorf("Score %d/%d, want 100/100", r.Score, r.MaxScore)
	}
	if r.Accuracy != 100 || r.CorrectAnswers != 3 || r.TotalQuestions != 3 {
		t.Errorf("result %+v", r)
	}
	if r.TimeSpent != 42 {
		t.Errorf("TimeSpent %d, want 42", r.TimeSpent)
	}
	if s.State.Status != StatusCompleted || s.State.Result == nil {
		t.Errorf("state %+v", s.State)
	}
}

func TestMatching_PairIdentity(t *testing.T) {
	s := mustSession(t, `{"type":"matching","content":{"pairs":[
	  {"id":"a","left":"Same","right":"Same"},
	  {"id":"b","left":"Same","right":"Same"}]}}`)
	s = mustApply(t, s, Action{Kind: ActionMatch, Unit: "a", Value: "b"})
	s = mustApply(t, s, Action{Kind: ActionMatch, Unit: "b", Value: "a"})
	if s.State.Score != 0 {
		t.Errorf("cross match scored %d, want 0", s.State.Score)
	}
}

func TestMatching_ToggleAndOverwrite(t *testing.T) {
	s := mustSession(t, matching3)
	a := Action{Kind: ActionMatch, Unit: "p1", Value: "p2"}
	s = mustApply(t, s, a)
	s = mustApply(t, s, a)
	if len(s.State.Progress.Answers) != 0 {
		t.Fatalf("same match twice should toggle off, got %v", s.State.Progress.Answers)
	}

	s = mustApply(t, s, Action{Kind: ActionMatch, Unit: "p1", Value: "p2"})
	s = mustApply(t, s, Action{Kind: ActionMatch, Unit: "p1", Value: "p1"})
	if got := s.State.Progress.Answers["p1"]; got != "p1" {
		t.Errorf("overwrite: p1→%q, want p1", got)
	}

	// taking a right already held elsewhere moves it
	s = mustApply(t, s, Action{Kind: ActionMatch, Unit: "p3", Value: "p1"})
	if _, ok := s.State.Progress.Answers["p1"]; ok {
		t.Errorf("p1 should have lost its right item: %v", s.State.Progress.Answers)
	}
	if len(s.State.Progress.Answers) != 1 {
		t.Errorf("answers %v", s.State.Progress.Answers)
	}
}

const fillBlank4 = `{"type":"fill-blank","scoring":{"maxScore":40},"content":{"passages":[
  {"text":"You smell with your ___ and hear with your ___.","blanks":[
    {"id":"b1","position":20,"correctAnswer":"nose"},
    {"id":"b2","position":43,"correctAnswer":"ears","options":["ears","eyes"]}]},
  {"text":"You see with your ___ and taste with your ___.","blanks":[
    {"id":"b3","position":18,"correctAnswer":"eyes"},
    {"id":"b4","position":42,"correctAnswer":"tongue"}]}]}}`

func TestFillBlank_CompletionGuard(t *testing.T) {
	s := mustSession(t, fillBlank4)
	s = mustApply(t, s, Action{Kind: ActionAnswer, Unit: "b1", Value: " NOSE "})
	s = mustApply(t, s, Action{Kind: ActionAnswer, Unit: "b2", Value: "Ears"})
	s = mustApply(t, s, Action{Kind: ActionAnswer, Unit: "b3", Value: "eyes"})
	if Ready(s) {
		t.Fatal("ready with 3 of 4 blanks")
	}
	if _, _, err := Complete(s, t0); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Complete err = %v, want ErrNotReady", err)
	}
	s = mustApply(t, s, Action{Kind: ActionAnswer, Unit: "b4", Value: "tounge"})
	_, r, err := Complete(s, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if r.CorrectAnswers != 3 || r.Score != 30 || r.MaxScore != 40 || r.Accuracy != 75 {
		t.Errorf("result %+v", r)
	}
}

func TestFillBlank_ClearAndOptions(t *testing.T) {
	s := mustSession(t, fillBlank4)
	s = mustApply(t, s, Action{Kind: ActionAnswer, Unit: "b1", Value: "nose"})
	s = mustApply(t, s, Action{Kind: ActionAnswer, Unit: "b1", Value: "  "})
	if len(s.State.Progress.Answers) != 0 {
		t.Errorf("blank value should clear: %v", s.State.Progress.Answers)
	}
	if _, err := Apply(s, Action{Kind: ActionAnswer, Unit: "b2", Value: "nose"}, t0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("non-option err = %v", err)
	}
	if _, err := Apply(s, Action{Kind: ActionAnswer, Unit: "b9", Value: "x"}, t0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("unknown blank err = %v", err)
	}
}

const cards3 = `{"type":"card-flip","scoring":{"maxScore":10},"content":{"cards":[
  {"id":"c1","front":"Breathe","back":"In for four"},
  {"id":"c2","front":"Hold","back":"For seven"},
  {"id":"c3","front":"Exhale","back":"For eight"}]}}`

func TestCardFlip(t *testing.T) {
	s := mustSession(t, cards3)
	if Ready(s) {
		t.Fatal("ready before any card was viewed")
	}
	s = mustApply(t, s, Action{Kind: ActionFlip, Unit: "c1"})
	s = mustApply(t, s, Action{Kind: ActionFlip, Unit: "c1"})
	if s.State.Progress.Flipped["c1"] {
		t.Error("second flip should turn the card back")
	}
	if !s.State.Progress.Viewed["c1"] {
		t.Error("viewed must survive flipping back")
	}
	if s.State.Score != 3 {
		t.Errorf("Score %d, want floor(1/3*10)=3", s.State.Score)
	}

	s = mustApply(t, s, Action{Kind: ActionFlipAll})
	if len(s.State.Progress.Flipped) != 3 || s.State.Score != 10 {
		t.Errorf("flip-all: flipped %d score %d", len(s.State.Progress.Flipped), s.State.Score)
	}
	s = mustApply(t, s, Action{Kind: ActionFlipAll})
	if len(s.State.Progress.Flipped) != 0 || len(s.State.Progress.Viewed) != 3 {
		t.Errorf("second flip-all: flipped %d viewed %d", len(s.State.Progress.Flipped), len(s.State.Progress.Viewed))
	}
}

const wordSearchDoc = `{"type":"word-puzzle","scoring":{"maxScore":100},"content":{
  "theme":"calm","gridSize":"10x10",
  "words":[{"word":"calm","hint":"at peace"},{"word":"rest"},{"word":"hope"}]}}`

func TestWordSearch_FindAllAutoCompletes(t *testing.T) {
	s := mustSession(t, wordSearchDoc)
	if s.Puzzle == nil || s.Puzzle.Size != 10 {
		t.Fatalf("puzzle %+v", s.Puzzle)
	}
	placed := s.Puzzle.Placed
	for i, pw := range placed {
		last := pw.Cells[len(pw.Cells)-1]
		first := pw.Cells[0]
		// drag backwards to check reversed matching
		s = mustApply(t, s, Action{
			Kind:  ActionSelect,
			Start: &words.Cell{Row: last.Row, Col: last.Col},
			End:   &words.Cell{Row: first.Row, Col: first.Col},
		})
		if i < len(placed)-1 && s.State.Status == StatusCompleted {
			t.Fatalf("completed after %d of %d words", i+1, len(placed))
		}
	}
	if s.State.Status != StatusCompleted || s.State.Result == nil {
		t.Fatalf("finding every word should auto-complete, status %q", s.State.Status)
	}
	if s.State.Result.Score != 100 || s.State.Result.TotalQuestions != len(placed) {
		t.Errorf("result %+v", s.State.Result)
	}
	if _, err := Apply(s, Action{Kind: ActionGuess, Value: "calm"}, t0); !errors.Is(err, ErrCompleted) {
		t.Errorf("action after completion err = %v", err)
	}
	if _, _, err := Complete(s, t0); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("double completion err = %v", err)
	}
}

const reversedPairDoc = `{"type":"word-puzzle","content":{"gridSize":10,
  "words":[{"word":"pots"},{"word":"stop"}]}}`

func TestWordSearch_ReversedPairBothCreditable(t *testing.T) {
	dragAll := func(t *testing.T, s Session) Session {
		for _, pw := range s.Puzzle.Placed {
			first, last := pw.Cells[0], pw.Cells[len(pw.Cells)-1]
			s = mustApply(t, s, Action{
				Kind:  ActionSelect,
				Start: &words.Cell{Row: last.Row, Col: last.Col},
				End:   &words.Cell{Row: first.Row, Col: first.Col},
			})
		}
		return s
	}
	guessAll := func(t *testing.T, s Session) Session {
		for _, w := range []string{"stop", "pots"} {
			s = mustApply(t, s, Action{Kind: ActionGuess, Value: w})
		}
		return s
	}
	for name, play := range map[string]func(*testing.T, Session) Session{"drag": dragAll, "guess": guessAll} {
		t.Run(name, func(t *testing.T) {
			s := mustSession(t, reversedPairDoc)
			if len(s.Puzzle.Placed) != 2 {
				t.Fatalf("placed %+v failed %v", s.Puzzle.Placed, s.Puzzle.Failed)
			}
			s = play(t, s)
			if !s.State.Progress.Found["POTS"] || !s.State.Progress.Found["STOP"] {
				t.Errorf("found %v", s.State.Progress.Found)
			}
			if s.State.Status != StatusCompleted || s.State.Score != 100 {
				t.Errorf("status %s score %d", s.State.Status, s.State.Score)
			}
		})
	}
}

func TestWordSearch_GuessIdempotentAndNoise(t *testing.T) {
	s := mustSession(t, wordSearchDoc)
	s = mustApply(t, s, Action{Kind: ActionGuess, Value: "mlac"})
	score := s.State.Score
	s = mustApply(t, s, Action{Kind: ActionGuess, Value: "CALM"})
	if s.State.Score != score || len(s.State.Progress.Found) != 1 {
		t.Errorf("repeat find re-credited: score %d→%d found %v", score, s.State.Score, s.State.Progress.Found)
	}
	if _, err := Apply(s, Action{Kind: ActionGuess, Value: "zebra"}, t0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("unknown word err = %v", err)
	}
	bent := Action{Kind: ActionSelect, Start: &words.Cell{Row: 0, Col: 0}, End: &words.Cell{Row: 1, Col: 2}}
	if _, err := Apply(s, bent, t0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("bent drag err = %v", err)
	}
	v := View(s)
	if v.WordSearch == nil || len(v.WordSearch.Found) != 1 || len(v.WordSearch.Remaining) != len(s.Puzzle.Placed)-1 {
		t.Errorf("view %+v", v.WordSearch)
	}
}

func TestWordSearch_EmptyWordsRejected(t *testing.T) {
	_, err := schema.Decode([]byte(`{"type":"word-puzzle","content":{"words":[]}}`))
	if !errors.Is(err, schema.ErrSchemaInvalid) {
		t.Fatalf("Decode err = %v, want ErrSchemaInvalid", err)
	}
	g := &schema.Game{Type: schema.TypeWordPuzzle, Scoring: schema.Scoring{MaxScore: 100}, WordPuzzle: &schema.WordPuzzleContent{}}
	s, err := NewSession(g, rand.New(rand.NewSource(1)), t0)
	if !errors.Is(err, schema.ErrSchemaInvalid) || s != nil {
		t.Errorf("NewSession = %v, %v", s, err)
	}
}

func TestWordSearch_ResetRegenerates(t *testing.T) {
	s := mustSession(t, wordSearchDoc)
	s = mustApply(t, s, Action{Kind: ActionGuess, Value: "calm"})
	r, err := Reset(s, rand.New(rand.NewSource(99)), t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if r.State.Status != StatusNotStarted || len(r.State.Progress.Found) != 0 || r.State.Score != 0 {
		t.Errorf("reset state %+v", r.State)
	}
	if r.State.Attempt != s.State.Attempt+1 {
		t.Errorf("Attempt %d after reset of attempt %d", r.State.Attempt, s.State.Attempt)
	}
	if !r.State.StartTime.Equal(t0.Add(time.Hour)) {
		t.Errorf("StartTime %v", r.State.StartTime)
	}
	if r.Puzzle == s.Puzzle {
		t.Error("reset should generate a new puzzle")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := mustSession(t, matching3)
	_ = mustApply(t, s, Action{Kind: ActionMatch, Unit: "p1", Value: "p1"})
	if len(s.State.Progress.Answers) != 0 || s.State.Status != StatusNotStarted {
		t.Errorf("input session changed: %+v", s.State)
	}
}

func TestScore_BoundedAndReplayable(t *testing.T) {
	docs := []string{matching3, fillBlank4, cards3}
	for _, doc := range docs {
		base := mustSession(t, doc)
		st, err := StrategyFor(&base)
		if err != nil {
			t.Fatalf("StrategyFor: %v", err)
		}
		rng := rand.New(rand.NewSource(5))
		units := []string{"p1", "p2", "p3", "b1", "b2", "b3", "b4", "c1", "c2", "c3", "zz"}
		values := []string{"p1", "p2", "p3", "nose", "ears", "eyes", "tongue", "", "x"}
		kinds := []ActionKind{ActionMatch, ActionAnswer, ActionFlip, ActionFlipAll}
		var actions []Action
		for i := 0; i < 200; i++ {
			actions = append(actions, Action{
				Kind:  kinds[rng.Intn(len(kinds))],
				Unit:  units[rng.Intn(len(units))],
				Value: values[rng.Intn(len(values))],
			})
		}
		run := func() int {
			s := base
			for _, a := range actions {
				next, err := Apply(s, a, t0)
				if err == nil {
					s = next
				}
				if s.State.Score < 0 || s.State.Score > st.MaxScore() {
					t.Fatalf("%s: score %d out of [0,%d]", base.Game.Type, s.State.Score, st.MaxScore())
				}
			}
			return s.State.Score
		}
		if a, b := run(), run(); a != b {
			t.Errorf("%s: replay scored %d then %d", base.Game.Type, a, b)
		}
	}
}

func TestQuizSortingSequence(t *testing.T) {
	q := mustSession(t, `{"type":"quiz","scoring":{"maxScore":10},"content":{"questions":[
	  {"id":"q1","question":"Best first step?","options":["Breathe","Panic"],"correctAnswer":"Breathe"},
	  {"id":"q2","question":"Helps sleep?","options":["Screens","Routine"],"correctAnswer":"Routine"}]}}`)
	q = mustApply(t, q, Action{Kind: ActionAnswer, Unit: "q1", Value: "breathe"})
	q = mustApply(t, q, Action{Kind: ActionAnswer, Unit: "q2", Value: "Screens"})
	if q.State.Score != 5 || !Ready(q) {
		t.Errorf("quiz score %d ready %v", q.State.Score, Ready(q))
	}

	s := mustSession(t, `{"type":"drag-drop","content":{
	  "dropZones":[{"id":"z1","label":"Helpful"},{"id":"z2","label":"Unhelpful"}],
	  "items":[{"id":"i1","text":"Walk","correctZone":"z1"},{"id":"i2","text":"Doomscroll","correctZone":"z2"}]}}`)
	s = mustApply(t, s, Action{Kind: ActionAssign, Unit: "i1", Value: "z1"})
	s = mustApply(t, s, Action{Kind: ActionAssign, Unit: "i2", Value: "z1"})
	if s.State.Score != 50 {
		t.Errorf("drag-drop score %d, want 50", s.State.Score)
	}
	if _, err := Apply(s, Action{Kind: ActionAssign, Unit: "i1", Value: "z9"}, t0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("unknown zone err = %v", err)
	}

	seq := mustSession(t, `{"type":"story-sequence","content":{"events":[
	  {"id":"e1","text":"Wake","order":1},{"id":"e2","text":"Stretch","order":2},{"id":"e3","text":"Breakfast","order":3}]}}`)
	if _, err := Apply(seq, Action{Kind: ActionOrder, Order: []string{"e1", "e1", "e2"}}, t0); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("duplicate order err = %v", err)
	}
	seq = mustApply(t, seq, Action{Kind: ActionOrder, Order: []string{"e1", "e3", "e2"}})
	if seq.State.Score != 33 {
		t.Errorf("sequence score %d, want 33", seq.State.Score)
	}
}

func TestNewSession_UnsupportedType(t *testing.T) {
	g := mustGame(t, `{"type":"memory-match","content":{"pairs":[]}}`)
	if _, err := NewSession(g, rand.New(rand.NewSource(1)), t0); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := mustSession(t, wordSearchDoc)
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Session
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// maps are nil after decoding an empty progress; Apply must cope
	back = mustApply(t, back, Action{Kind: ActionGuess, Value: back.Puzzle.Placed[0].Word})
	if len(back.State.Progress.Found) != 1 {
		t.Errorf("found %v", back.State.Progress.Found)
	}
}

func TestFinalize_NoUnits(t *testing.T) {
	r := Finalize(State{StartTime: t0.Add(time.Hour)}, newCardFlip(nil, 100), t0)
	if r.Accuracy != 0 || r.Score != 0 || r.TimeSpent != 0 {
		t.Errorf("result %+v", r)
	}
}
