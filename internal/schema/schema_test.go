package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

const matchingDoc = `{
  "id": "m1",
  "title": "Feelings",
  "type": "matching",
  "scoring": {"maxScore": 30},
  "content": {
    "pairs": [
      {"id": "p1", "left": "Happy", "right": "Smile"},
      {"id": "p2", "left": "Sad", "right": "Tears"}
    ]
  }
}`

func TestDecode_Matching(t *testing.T) {
	g, err := Decode([]byte(matchingDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.Type != TypeMatching {
		t.Errorf("Type %q, want matching", g.Type)
	}
	if g.Matching == nil || len(g.Matching.Pairs) != 2 {
		t.Fatalf("Matching pairs not decoded: %+v", g.Matching)
	}
	if g.Scoring.MaxScore != 30 {
		t.Errorf("MaxScore %d, want 30", g.Scoring.MaxScore)
	}
	if g.Version != "1.0" {
		t.Errorf("Version %q, want default 1.0", g.Version)
	}
}

func TestDecode_StripsFences(t *testing.T) {
	raw := "Here is the JSON:\n```json\n" + matchingDoc + "\n```"
	g, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode fenced: %v", err)
	}
	if g.ID != "m1" {
		t.Errorf("ID %q, want m1", g.ID)
	}
}

func TestDecode_Defaults(t *testing.T) {
	g, err := Decode([]byte(`{"type":"card-flip","title":"x","content":{"cards":[{"id":"c1","front":"a","back":"b"}]}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.ID == "" {
		t.Error("missing id should be generated")
	}
	if g.Scoring.MaxScore != 100 {
		t.Errorf("MaxScore %d, want default 100", g.Scoring.MaxScore)
	}
}

func TestDecode_LeftRightItems(t *testing.T) {
	doc := `{"type":"matching","content":{
	  "leftItems":[{"id":"l1","text":"Breathe","matchId":"a"},{"id":"l2","text":"Walk","matchId":"b"}],
	  "rightItems":[{"id":"r1","text":"Calm","matchId":"a"},{"id":"r2","text":"Energy","matchId":"b"}]}}`
	g, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(g.Matching.Pairs) != 2 || g.Matching.Pairs[1].Right != "Energy" {
		t.Errorf("pairs %+v", g.Matching.Pairs)
	}
}

func TestDecode_SortingByLabel(t *testing.T) {
	doc := `{"type":"sorting","content":{"instructions":"sort",
	  "categories":[{"id":"c1","name":"Calming"},{"id":"c2","name":"Energising"}],
	  "items":[{"id":"i1","text":"Deep breath","category":"Calming"},{"id":"i2","text":"Run","category":"c2"}]}}`
	g, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.Sorting.Items[0].Bucket != "c1" {
		t.Errorf("label reference not resolved: %q", g.Sorting.Items[0].Bucket)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"not json", `{nope`},
		{"unknown type", `{"type":"crossword","content":{}}`},
		{"missing content", `{"type":"quiz"}`},
		{"word puzzle without words", `{"type":"word-puzzle","content":{"words":[],"gridSize":12}}`},
		{"matching without pairs", `{"type":"matching","content":{"pairs":[]}}`},
		{"duplicate pair ids", `{"type":"matching","content":{"pairs":[{"id":"p","left":"a","right":"b"},{"id":"p","left":"c","right":"d"}]}}`},
		{"blank outside passage", `{"type":"fill-blank","content":{"passages":[{"text":"abc","blanks":[{"id":"b1","position":9,"correctAnswer":"x"}]}]}}`},
		{"blank past multibyte passage", `{"type":"fill-blank","content":{"passages":[{"text":"héllo","blanks":[{"id":"b1","position":6,"correctAnswer":"x"}]}]}}`},
		{"blank answer not in options", `{"type":"fill-blank","content":{"passages":[{"text":"abc","blanks":[{"id":"b1","position":1,"correctAnswer":"x","options":["y","z"]}]}]}}`},
		{"quiz answer not an option", `{"type":"quiz","content":{"questions":[{"id":"q1","question":"?","options":["a","b"],"correctAnswer":"c"}]}}`},
		{"sorting unknown bucket", `{"type":"drag-drop","content":{"dropZones":[{"id":"z1","label":"Z"}],"items":[{"id":"i1","text":"t","correctZone":"z9"}]}}`},
		{"adventure missing scenarios", `{"type":"anxiety-adventure","content":{"startId":"s1"}}`},
		{"word with digits", `{"type":"word-puzzle","content":{"words":[{"word":"calm1"}]}}`},
		{"bad direction", `{"type":"word-puzzle","content":{"words":[{"word":"calm","direction":"spiral"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			if !errors.Is(err, ErrSchemaInvalid) {
				t.Fatalf("err = %v, want ErrSchemaInvalid", err)
			}
		})
	}
}

func TestDecode_BlankPositionCountsCharacters(t *testing.T) {
	doc := `{"type":"fill-blank","content":{"passages":[{"text":"Take a calm café ","blanks":[{"id":"b1","position":17,"correctAnswer":"break"}]}]}}`
	if _, err := Decode([]byte(doc)); err != nil {
		t.Errorf("blank at end of a multibyte passage rejected: %v", err)
	}
}

func TestDecode_UnknownTypeIsDistinguishable(t *testing.T) {
	_, err := Decode([]byte(`{"type":"crossword","content":{}}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
}

func TestGame_JSONRoundTrip(t *testing.T) {
	g, err := Decode([]byte(matchingDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Game
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ID != g.ID || len(back.Matching.Pairs) != 2 {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestNormalizeAnswer(t *testing.T) {
	for _, in := range []string{"Nose", " nose ", "NOSE", "nose"} {
		if NormalizeAnswer(in) != "nose" {
			t.Errorf("NormalizeAnswer(%q) = %q", in, NormalizeAnswer(in))
		}
	}
	if NormalizeAnswer("Noze") == "nose" {
		t.Error("Noze must not normalise to nose")
	}
}
