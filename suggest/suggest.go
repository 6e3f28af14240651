// CLAUDE:SUMMARY Candidate generation: code-split filtering/ranking, lazy-load subset, chain-merge candidates.
package suggest

import (
	"sort"

	"github.com/bundlescope/bundlescope/coverage"
	"github.com/bundlescope/bundlescope/netchain"
)

// Suggestion proposes splitting or trimming one bundle. Byte and usage
// fields mirror the coverage entry it was derived from.
type Suggestion struct {
	URL                string        `json:"url"`
	Priority           Priority      `json:"priority"`
	TotalBytes         int64         `json:"total_bytes"`
	UnusedBytes        int64         `json:"unused_bytes"`
	UsagePercent       float64       `json:"usage_percent"`
	External           bool          `json:"external"`
	DetectedDependency string        `json:"detected_dependency,omitempty"`
	Alternatives       []Alternative `json:"alternatives,omitempty"`
}

// MergeCandidate proposes bundling the scripts of one loading chain together
// so they ship in a single request. Observed in one session only, not proven
// to always load together.
type MergeCandidate struct {
	URLs          []string `json:"urls"`
	Depth         int      `json:"depth"`
	CombinedBytes int64    `json:"combined_bytes"`
	TotalMs       float64  `json:"total_ms"`
}

// CodeSplit filters JS coverage entries to those at least minSizeKB big with
// at least minUnusedPercent of their bytes unused, scores each independently,
// and ranks by priority, ties broken by unused bytes descending. table may be
// nil to skip heavy-dependency detection.
func CodeSplit(entries []coverage.Entry, minSizeKB int, minUnusedPercent float64, table *Table) []Suggestion {
	minBytes := int64(minSizeKB) * 1024

	var out []Suggestion
	for _, e := range entries {
		unusedPct := 100 - e.UsagePercent
		if e.TotalBytes < minBytes || unusedPct < minUnusedPercent {
			continue
		}
		s := Suggestion{
			URL:          e.URL,
			Priority:     Score(e.UnusedBytes, unusedPct),
			TotalBytes:   e.TotalBytes,
			UnusedBytes:  e.UnusedBytes,
			UsagePercent: e.UsagePercent,
			External:     e.External,
		}
		if table != nil {
			if dep := table.Detect(e.URL); dep != "" {
				s.DetectedDependency = dep
				s.Alternatives = table.Alternatives(dep)
			}
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		}
		return out[i].UnusedBytes > out[j].UnusedBytes
	})
	return out
}

// LazyLoad returns the suggestions that are lazy-load candidates: first-party
// code less than half used. Third-party bundles are excluded: their
// remediation is the alternatives table, not lazy loading.
func LazyLoad(suggestions []Suggestion) []Suggestion {
	var out []Suggestion
	for _, s := range suggestions {
		if s.UsagePercent < 50 && !s.External {
			out = append(out, s)
		}
	}
	return out
}

// Merges proposes a merge candidate for every retained chain. Combined size
// sums the sizes along the chain; unknown sizes contribute 0.
func Merges(chains []netchain.Chain) []MergeCandidate {
	var out []MergeCandidate
	for _, c := range chains {
		if c.Depth < 2 {
			continue
		}
		var combined int64
		for n := c.Root; n != nil; n = n.Child {
			combined += n.SizeBytes
		}
		out = append(out, MergeCandidate{
			URLs:          c.URLs,
			Depth:         c.Depth,
			CombinedBytes: combined,
			TotalMs:       c.TotalMs,
		})
	}
	return out
}
