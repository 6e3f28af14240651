// CLAUDE:SUMMARY Renders a paged coverage report as human-readable text for tool output.
package coverage

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// RenderText renders the paged report for tool consumers. Mechanical
// formatting only; every field a caller needs programmatically is in the
// structured report.
func RenderText(r *PagedReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Coverage report for %s\n", r.PageURL)

	if r.JS != nil {
		renderType(&sb, "JavaScript", r.JS)
	}
	if r.CSS != nil {
		renderType(&sb, "CSS", r.CSS)
	}
	if r.JS == nil && r.CSS == nil {
		sb.WriteString("\nNo resource types were tracked.\n")
	}
	return sb.String()
}

func renderType(sb *strings.Builder, label string, t *PagedType) {
	fmt.Fprintf(sb, "\n## %s: %d files, %s total, %s unused (%.1f%% used)\n",
		label, t.Summary.FileCount,
		humanize.IBytes(uint64(t.Summary.TotalBytes)),
		humanize.IBytes(uint64(t.Summary.UnusedBytes)),
		t.Summary.UsagePercent)

	if len(t.Entries) == 0 {
		sb.WriteString("(no files)\n")
		return
	}

	for i, e := range t.Entries {
		origin := "first-party"
		if e.External {
			origin = "third-party"
		}
		fmt.Fprintf(sb, "%d. %s\n   %s unused of %s (%.1f%% used, %s)\n",
			t.Page.StartIndex+i, e.URL,
			humanize.IBytes(uint64(e.UnusedBytes)),
			humanize.IBytes(uint64(e.TotalBytes)),
			e.UsagePercent, origin)
	}

	fmt.Fprintf(sb, "Showing %d-%d, page %d of %d",
		t.Page.StartIndex, t.Page.EndIndex, t.Page.CurrentPage+1, t.Page.TotalPages)
	if t.Page.HasNext {
		sb.WriteString(" (more pages available)")
	}
	sb.WriteString("\n")
}
