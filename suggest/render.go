// CLAUDE:SUMMARY Text rendering for suggestions, lazy-load candidates, chains and merge candidates.
package suggest

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bundlescope/bundlescope/netchain"
)

// RenderSuggestions renders code-split suggestions and their lazy-load
// subset.
func RenderSuggestions(suggestions, lazy []Suggestion) string {
	var sb strings.Builder

	if len(suggestions) == 0 {
		return "No bundles met the size and unused-percent thresholds.\n"
	}

	fmt.Fprintf(&sb, "Code-split suggestions (%d)\n", len(suggestions))
	for i, s := range suggestions {
		fmt.Fprintf(&sb, "%d. [%s] %s\n   %s unused of %s (%.1f%% used)\n",
			i+1, s.Priority, s.URL,
			humanize.IBytes(uint64(s.UnusedBytes)),
			humanize.IBytes(uint64(s.TotalBytes)),
			s.UsagePercent)
		if s.DetectedDependency != "" {
			fmt.Fprintf(&sb, "   detected dependency: %s\n", s.DetectedDependency)
			for _, a := range s.Alternatives {
				fmt.Fprintf(&sb, "     - %s (~%d KB savings, %s effort)\n",
					a.Name, a.SizeSavingsKB, a.Effort)
			}
		}
	}

	if len(lazy) > 0 {
		fmt.Fprintf(&sb, "\nLazy-load candidates (first-party, under half used):\n")
		for _, s := range lazy {
			fmt.Fprintf(&sb, "- %s (%.1f%% used)\n", s.URL, s.UsagePercent)
		}
	}
	return sb.String()
}

// RenderChains renders detected chains with their merge candidates. Chains
// reflect one observed page load.
func RenderChains(chains []netchain.Chain, merges []MergeCandidate) string {
	if len(chains) == 0 {
		return "No sequential loading chains detected.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Sequential loading chains (%d), observed in this session\n", len(chains))
	for i, c := range chains {
		fmt.Fprintf(&sb, "%d. depth %d, %.0fms total\n", i+1, c.Depth, c.TotalMs)
		for n := c.Root; n != nil; n = n.Child {
			fmt.Fprintf(&sb, "   → %s (%.0fms, %s)\n",
				n.URL, n.LoadMs, humanize.IBytes(uint64(n.SizeBytes)))
		}
	}

	if len(merges) > 0 {
		sb.WriteString("\nMerge candidates:\n")
		for _, m := range merges {
			fmt.Fprintf(&sb, "- merge %d scripts (%s combined): %s\n",
				m.Depth, humanize.IBytes(uint64(m.CombinedBytes)), strings.Join(m.URLs, " + "))
		}
	}
	return sb.String()
}
