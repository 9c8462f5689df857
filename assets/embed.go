// Package assets embeds the demo game fixtures served by /fixtures and used
// for the daily word search.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wellplay/game-server/internal/schema"
)

//go:embed fixtures/*.yaml
var FS embed.FS

// DailyFixture is the word-search played by everyone on a given day.
const DailyFixture = "daily-words"

// FixtureNames lists the embedded fixtures, sorted, without extension.
func FixtureNames() ([]string, error) {
	entries, err := fs.ReadDir(FS, "fixtures")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok && !e.IsDir() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// FixtureJSON returns a fixture converted to its JSON wire form.
func FixtureJSON(name string) ([]byte, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("fixture %q: %w", name, fs.ErrNotExist)
	}
	raw, err := FS.ReadFile(path.Join("fixtures", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	return json.Marshal(doc)
}

// Fixture loads and validates a fixture.
func Fixture(name string) (*schema.Game, error) {
	b, err := FixtureJSON(name)
	if err != nil {
		return nil, err
	}
	g, err := schema.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	return g, nil
}
