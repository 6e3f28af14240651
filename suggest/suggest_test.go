package suggest

import (
	"strings"
	"testing"

	"github.com/bundlescope/bundlescope/coverage"
	"github.com/bundlescope/bundlescope/netchain"
)

func TestScoreLadder(t *testing.T) {
	cases := []struct {
		name          string
		unusedBytes   int64
		unusedPercent float64
		want          Priority
	}{
		{"big bytes", 150 * 1024, 10, PriorityCritical},
		{"big percent", 1024, 60, PriorityCritical},
		{"exactly 100KB and 50%", 100 * 1024, 50, PriorityHigh},
		{"just over 100KB", 100*1024 + 1, 10, PriorityCritical},
		{"high by bytes", 60 * 1024, 10, PriorityHigh},
		{"high by percent", 1024, 35, PriorityHigh},
		{"medium by bytes", 25 * 1024, 10, PriorityMedium},
		{"medium by percent", 1024, 25, PriorityMedium},
		{"low", 10 * 1024, 10, PriorityLow},
		{"zero", 0, 0, PriorityLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.unusedBytes, tc.unusedPercent)
			if got != tc.want {
				t.Errorf("Score(%d, %v): got %s, want %s", tc.unusedBytes, tc.unusedPercent, got, tc.want)
			}
		})
	}
}

func TestDetectDependencyBoundaries(t *testing.T) {
	table := DefaultTable()

	cases := []struct {
		url  string
		want string
	}{
		{"https://cdn.test/lodash.js", "lodash"},
		{"https://cdn.test/node_modules/lodash/lodash.js", "lodash"},
		{"https://cdn.test/lodash.min.js", "lodash"},
		{"https://cdn.test/lodash-4.17.21.js", "lodash"},
		{"https://cdn.test/my-lodashthing.js", ""},
		{"https://cdn.test/explodash.js", ""},
		{"https://cdn.test/jquery-3.6.0.min.js", "jquery"},
		{"https://cdn.test/MOMENT.JS", "moment"},
		{"https://cdn.test/app.js", ""},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			if got := table.Detect(tc.url); got != tc.want {
				t.Errorf("Detect(%q): got %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestDetectDeclarationOrderWins(t *testing.T) {
	table := NewTable().
		Add("lodash-es", Alternative{Name: "x", SizeSavingsKB: 1, Effort: "low"}).
		Add("lodash", Alternative{Name: "y", SizeSavingsKB: 1, Effort: "low"})

	// /lodash-es/ matches both "lodash-es" (segment) and "lodash" ("/lodash-"
	// pattern); first declared wins.
	if got := table.Detect("https://cdn.test/lodash-es/index.js"); got != "lodash-es" {
		t.Errorf("precedence: got %q, want lodash-es", got)
	}
}

func entry(url string, total, unused int64, external bool) coverage.Entry {
	used := total - unused
	e := coverage.Entry{URL: url, TotalBytes: total, UsedBytes: used, UnusedBytes: unused, External: external}
	if total > 0 {
		e.UsagePercent = float64(used) / float64(total) * 100
	}
	return e
}

func TestCodeSplitFilterAndRank(t *testing.T) {
	entries := []coverage.Entry{
		entry("https://a.test/tiny.js", 10*1024, 9*1024, false),         // below min size
		entry("https://a.test/wellused.js", 200*1024, 10*1024, false),   // 5% unused, below min percent
		entry("https://a.test/medium.js", 100*1024, 30*1024, false),     // 30% unused → high (by percent? 30 not >30 → bytes 30KB not >50 → medium)
		entry("https://a.test/huge.js", 500*1024, 400*1024, false),      // critical
		entry("https://a.test/vendor/lodash.js", 80*1024, 60*1024, true), // critical by percent (75%)
	}

	got := CodeSplit(entries, 50, 20, DefaultTable())
	if len(got) != 3 {
		t.Fatalf("suggestions: got %d, want 3", len(got))
	}

	// Critical first, ties by unused bytes descending.
	if got[0].URL != "https://a.test/huge.js" || got[0].Priority != PriorityCritical {
		t.Errorf("first: got %s (%s)", got[0].URL, got[0].Priority)
	}
	if got[1].URL != "https://a.test/vendor/lodash.js" || got[1].Priority != PriorityCritical {
		t.Errorf("second: got %s (%s)", got[1].URL, got[1].Priority)
	}
	if got[2].URL != "https://a.test/medium.js" || got[2].Priority != PriorityMedium {
		t.Errorf("third: got %s (%s)", got[2].URL, got[2].Priority)
	}

	if got[1].DetectedDependency != "lodash" {
		t.Errorf("lodash not detected: %+v", got[1])
	}
	if len(got[1].Alternatives) == 0 {
		t.Error("detected dependency carries no alternatives")
	}
}

func TestCodeSplitEmptyInput(t *testing.T) {
	if got := CodeSplit(nil, 50, 20, nil); len(got) != 0 {
		t.Errorf("nil input: got %d suggestions", len(got))
	}
}

func TestLazyLoadSubset(t *testing.T) {
	suggestions := []Suggestion{
		{URL: "a", UsagePercent: 20, External: false},
		{URL: "b", UsagePercent: 20, External: true},  // third-party excluded
		{URL: "c", UsagePercent: 80, External: false}, // well used excluded
		{URL: "d", UsagePercent: 49.9, External: false},
	}
	got := LazyLoad(suggestions)
	if len(got) != 2 || got[0].URL != "a" || got[1].URL != "d" {
		t.Errorf("lazy-load candidates: got %+v", got)
	}
}

func TestMerges(t *testing.T) {
	chains := netchain.Detect([]netchain.Request{
		{URL: "https://a.test/a.js", ResourceType: "script", StartMs: 0, EndMs: 100, SizeBytes: 1000, HasTiming: true},
		{URL: "https://a.test/b.js", ResourceType: "script", StartMs: 110, EndMs: 200, SizeBytes: 500, HasTiming: true},
	}, 2, 0)

	merges := Merges(chains)
	if len(merges) != 1 {
		t.Fatalf("merges: got %d, want 1", len(merges))
	}
	m := merges[0]
	if m.CombinedBytes != 1500 {
		t.Errorf("CombinedBytes: got %d, want 1500", m.CombinedBytes)
	}
	if m.Depth != 2 || len(m.URLs) != 2 {
		t.Errorf("merge shape: %+v", m)
	}
}

func TestRenderSuggestionsContent(t *testing.T) {
	s := []Suggestion{{
		URL: "https://a.test/lodash.js", Priority: PriorityCritical,
		TotalBytes: 500 * 1024, UnusedBytes: 400 * 1024, UsagePercent: 20,
		DetectedDependency: "lodash",
		Alternatives:       DefaultTable().Alternatives("lodash"),
	}}
	text := RenderSuggestions(s, LazyLoad(s))
	for _, want := range []string{"critical", "lodash", "Lazy-load"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
}
