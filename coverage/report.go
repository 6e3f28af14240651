// CLAUDE:SUMMARY Builds a coverage report: classify every record, stable-sort by unused bytes, summarise the full set.
package coverage

import (
	"sort"
	"time"
)

// Input carries the raw records of one tracking session. IncludeJS/IncludeCSS
// mirror the options tracking was started with; a disabled type produces no
// TypeReport even if records were somehow collected for it.
type Input struct {
	JS         []Record
	CSS        []Record
	IncludeJS  bool
	IncludeCSS bool
}

// Build classifies all records and assembles the session report. It does not
// paginate: the report keeps the full sorted entry sets so later calls can
// re-window without reclassifying. vendorPatterns nil means
// DefaultVendorPatterns.
func Build(pageURL string, in Input, vendorPatterns []string) *Report {
	r := &Report{PageURL: pageURL, GeneratedAt: time.Now().UTC()}
	if in.IncludeJS {
		r.JS = buildType(in.JS, pageURL, vendorPatterns)
	}
	if in.IncludeCSS {
		r.CSS = buildType(in.CSS, pageURL, vendorPatterns)
	}
	return r
}

func buildType(recs []Record, pageURL string, vendorPatterns []string) *TypeReport {
	entries := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, Classify(rec, pageURL, vendorPatterns))
	}

	// Summary over the full, pre-sort set. Sorting does not change totals,
	// but computing it first keeps the independence from presentation obvious.
	sum := summarize(entries)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UnusedBytes > entries[j].UnusedBytes
	})

	return &TypeReport{Entries: entries, Summary: sum}
}

func summarize(entries []Entry) Summary {
	s := Summary{FileCount: len(entries)}
	for _, e := range entries {
		s.TotalBytes += e.TotalBytes
		s.UsedBytes += e.UsedBytes
		s.UnusedBytes += e.UnusedBytes
	}
	if s.TotalBytes > 0 {
		s.UsagePercent = float64(s.UsedBytes) / float64(s.TotalBytes) * 100
	}
	return s
}
