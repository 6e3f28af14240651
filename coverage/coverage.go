// CLAUDE:SUMMARY Core coverage types: raw records, classified entries, per-type reports with full-set summaries.
// Package coverage turns raw byte-usage records collected from a live page
// into classified, sorted and summarised reports. A record arrives from an
// instrumentation source as a source length plus the byte ranges that were
// actually executed (JS) or applied (CSS); everything derived from it is
// computed here.
//
// coverage is pure data-shaping: no I/O, no browser knowledge. The acquisition
// side lives in analyzer/internal/provider.
package coverage

import "time"

// Range is a half-open [Start, End) byte interval within a source file.
// Well-formed ranges satisfy 0 <= Start <= End <= SourceLength and do not
// overlap each other.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Record is the raw per-resource usage data handed over by a coverage
// provider when tracking stops.
type Record struct {
	URL          string  `json:"url"`
	SourceLength int64   `json:"source_length"`
	Ranges       []Range `json:"ranges"`
}

// Entry is one classified resource in a coverage report. All byte fields
// derive from the Record; External marks third-party origin (cross-origin,
// or a same-origin vendor bundle by naming convention).
type Entry struct {
	URL          string  `json:"url"`
	TotalBytes   int64   `json:"total_bytes"`
	UsedBytes    int64   `json:"used_bytes"`
	UnusedBytes  int64   `json:"unused_bytes"`
	UsagePercent float64 `json:"usage_percent"`
	External     bool    `json:"external"`
}

// Summary aggregates a complete classified set. It is always computed over
// the full set, never over a returned page window.
type Summary struct {
	FileCount    int     `json:"file_count"`
	TotalBytes   int64   `json:"total_bytes"`
	UsedBytes    int64   `json:"used_bytes"`
	UnusedBytes  int64   `json:"unused_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// TypeReport holds the full entry set of one resource type, sorted by
// UnusedBytes descending (stable: ties keep discovery order), plus its
// summary.
type TypeReport struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Report is the result of one tracking session. JS and CSS are nil for
// resource types that were not enabled when tracking started; an enabled
// type with no resources yields an empty, non-nil TypeReport.
type Report struct {
	PageURL     string      `json:"page_url"`
	JS          *TypeReport `json:"js,omitempty"`
	CSS         *TypeReport `json:"css,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// PagedType is a windowed view over one TypeReport. Summary still covers the
// full set.
type PagedType struct {
	Entries []Entry  `json:"entries"`
	Summary Summary  `json:"summary"`
	Page    PageInfo `json:"page"`
}

// PagedReport is a windowed view over a Report, safe to hand to renderers.
type PagedReport struct {
	PageURL     string     `json:"page_url"`
	JS          *PagedType `json:"js,omitempty"`
	CSS         *PagedType `json:"css,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Paged returns a windowed view of the report. Both types share the same
// window parameters; pagination metadata is computed per type.
func (r *Report) Paged(pageSize, pageIdx int) *PagedReport {
	out := &PagedReport{PageURL: r.PageURL, GeneratedAt: r.GeneratedAt}
	if r.JS != nil {
		items, info := Paginate(r.JS.Entries, pageSize, pageIdx)
		out.JS = &PagedType{Entries: items, Summary: r.JS.Summary, Page: info}
	}
	if r.CSS != nil {
		items, info := Paginate(r.CSS.Entries, pageSize, pageIdx)
		out.CSS = &PagedType{Entries: items, Summary: r.CSS.Summary, Page: info}
	}
	return out
}
