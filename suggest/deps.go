// CLAUDE:SUMMARY Heavy-dependency table: ordered name→alternatives mapping with filename-boundary URL matching.
package suggest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alternative is a lighter replacement for a recognized heavy dependency.
// Static configuration data, not derived from observations.
type Alternative struct {
	Name          string `json:"name" yaml:"name"`
	SizeSavingsKB int    `json:"size_savings_kb" yaml:"size_savings_kb"`
	Effort        string `json:"effort" yaml:"effort"` // low | medium | high
}

// Table maps known heavy-dependency names to their alternatives. Match
// precedence follows insertion order: when a URL could match several names,
// the earliest added wins. Read-only after construction; inject a substitute
// table in tests instead of mutating the default.
type Table struct {
	names []string
	alts  map[string][]Alternative
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{alts: make(map[string][]Alternative)}
}

// Add appends a dependency with its alternatives. Adding an existing name
// replaces its alternatives but keeps its original precedence.
func (t *Table) Add(name string, alts ...Alternative) *Table {
	if _, ok := t.alts[name]; !ok {
		t.names = append(t.names, name)
	}
	t.alts[name] = alts
	return t
}

// Names returns dependency names in precedence order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Alternatives returns the alternatives for a dependency name, nil if
// unknown.
func (t *Table) Alternatives(name string) []Alternative {
	return t.alts[name]
}

// Detect returns the first dependency (in precedence order) whose name
// appears in the URL at a filename boundary, or "" when none matches.
// Matching is case-insensitive.
func (t *Table) Detect(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, name := range t.names {
		if matchesDependency(lower, name) {
			return name
		}
	}
	return ""
}

// matchesDependency requires the name at a boundary: a path segment of its
// own, a filename followed by .js/.min.js, or hyphen-delimited. This keeps
// ".../my-lodashthing.js" from matching "lodash".
func matchesDependency(lowerURL, name string) bool {
	pats := []string{
		"/" + name + "/",
		"/" + name + ".js",
		"/" + name + ".min.js",
		"/" + name + "-",
		"-" + name + ".js",
		"-" + name + ".min.js",
		"-" + name + "-",
	}
	for _, p := range pats {
		if strings.Contains(lowerURL, p) {
			return true
		}
	}
	return false
}

// DefaultTable holds the built-in heavy dependencies. Savings are rough
// minified sizes relative to the listed alternative.
func DefaultTable() *Table {
	return NewTable().
		Add("moment",
			Alternative{Name: "dayjs", SizeSavingsKB: 225, Effort: "low"},
			Alternative{Name: "date-fns", SizeSavingsKB: 200, Effort: "medium"},
		).
		Add("lodash",
			Alternative{Name: "lodash-es (per-method imports)", SizeSavingsKB: 60, Effort: "low"},
			Alternative{Name: "native array/object methods", SizeSavingsKB: 70, Effort: "medium"},
		).
		Add("jquery",
			Alternative{Name: "native DOM APIs", SizeSavingsKB: 87, Effort: "high"},
			Alternative{Name: "cash-dom", SizeSavingsKB: 81, Effort: "low"},
		).
		Add("axios",
			Alternative{Name: "native fetch", SizeSavingsKB: 13, Effort: "medium"},
			Alternative{Name: "redaxios", SizeSavingsKB: 11, Effort: "low"},
		).
		Add("rxjs",
			Alternative{Name: "targeted operator imports", SizeSavingsKB: 100, Effort: "medium"},
		).
		Add("core-js",
			Alternative{Name: "targeted polyfills via browserslist", SizeSavingsKB: 85, Effort: "medium"},
		).
		Add("bootstrap",
			Alternative{Name: "CSS-only build", SizeSavingsKB: 59, Effort: "low"},
			Alternative{Name: "hand-rolled components", SizeSavingsKB: 150, Effort: "high"},
		)
}

// tableEntry is the YAML shape for one dependency; file order defines match
// precedence.
type tableEntry struct {
	Name         string        `yaml:"name"`
	Alternatives []Alternative `yaml:"alternatives"`
}

// LoadTable reads a substitute alternatives table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("suggest: read table: %w", err)
	}

	var entries []tableEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("suggest: parse table: %w", err)
	}

	t := NewTable()
	for _, e := range entries {
		t.Add(e.Name, e.Alternatives...)
	}
	return t, nil
}
