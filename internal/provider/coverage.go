// CLAUDE:SUMMARY Rod-backed coverage provider: Profiler precise coverage for JS, CSS rule-usage tracking for stylesheets.
// Package provider implements the analyzer's provider contracts over a live
// Rod page via CDP: the Profiler domain for JS byte coverage, the CSS domain
// for stylesheet rule usage, and the Network domain for request timing.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/bundlescope/bundlescope/analyzer"
	"github.com/bundlescope/bundlescope/coverage"
	"github.com/bundlescope/bundlescope/session"
)

// Coverage tracks JS and CSS byte usage on one page. It implements
// analyzer.CoverageProvider.
type Coverage struct {
	page   *rod.Page
	logger *slog.Logger

	mu     sync.Mutex
	opts   session.Options
	reset  bool
	cancel context.CancelFunc
	// sheets maps stylesheet IDs to their headers, collected from
	// CSSStyleSheetAdded events while tracking runs.
	sheets map[proto.CSSStyleSheetID]*proto.CSSCSSStyleSheetHeader
}

// NewCoverage creates a coverage provider bound to a page.
func NewCoverage(page *rod.Page, logger *slog.Logger) *Coverage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coverage{page: page, logger: logger}
}

// Begin enables the CDP domains the requested types need and starts
// collecting.
func (c *Coverage) Begin(ctx context.Context, opts session.Options, resetOnNavigation bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts = opts
	c.reset = resetOnNavigation
	c.sheets = make(map[proto.CSSStyleSheetID]*proto.CSSCSSStyleSheetHeader)

	p := c.page.Context(ctx)

	if opts.IncludeJS {
		if err := (proto.ProfilerEnable{}).Call(p); err != nil {
			return fmt.Errorf("provider: enable profiler: %w", err)
		}
		if _, err := (proto.ProfilerStartPreciseCoverage{Detailed: true}).Call(p); err != nil {
			return fmt.Errorf("provider: start js coverage: %w", err)
		}
	}

	if opts.IncludeCSS {
		if err := (proto.DOMEnable{}).Call(p); err != nil {
			return fmt.Errorf("provider: enable dom: %w", err)
		}
		if err := (proto.CSSEnable{}).Call(p); err != nil {
			return fmt.Errorf("provider: enable css: %w", err)
		}
		if err := (proto.CSSStartRuleUsageTracking{}).Call(p); err != nil {
			return fmt.Errorf("provider: start css coverage: %w", err)
		}
	}

	// The listener outlives the Begin call (tool-request contexts end when
	// the request does), so it runs on its own context until End.
	evCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.listen(evCtx)

	return nil
}

func (c *Coverage) listen(ctx context.Context) {
	p := c.page.Context(ctx)
	wait := p.EachEvent(
		func(e *proto.CSSStyleSheetAdded) {
			c.mu.Lock()
			if c.sheets != nil {
				c.sheets[e.Header.StyleSheetID] = e.Header
			}
			c.mu.Unlock()
		},
		func(e *proto.PageFrameNavigated) {
			if e.Frame.ParentID != "" {
				return
			}
			c.mu.Lock()
			reset := c.reset
			c.mu.Unlock()
			if reset {
				c.discard(ctx)
			}
		},
	)
	wait()
}

// discard drops everything collected so far, so that data gathered before a
// navigation does not pollute the report for the new page.
func (c *Coverage) discard(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.page.Context(ctx)
	if c.opts.IncludeJS {
		// Taking coverage flushes the accumulated deltas.
		if _, err := (proto.ProfilerTakePreciseCoverage{}).Call(p); err != nil {
			c.logger.Warn("provider: js coverage reset failed", "error", err)
		}
	}
	if c.opts.IncludeCSS {
		if _, err := (proto.CSSStopRuleUsageTracking{}).Call(p); err != nil {
			c.logger.Warn("provider: css coverage reset failed", "error", err)
		}
		if err := (proto.CSSStartRuleUsageTracking{}).Call(p); err != nil {
			c.logger.Warn("provider: css coverage restart failed", "error", err)
		}
		c.sheets = make(map[proto.CSSStyleSheetID]*proto.CSSCSSStyleSheetHeader)
	}
	c.logger.Info("provider: coverage data reset on navigation")
}

// End stops collecting and converts the CDP results into coverage records.
func (c *Coverage) End(ctx context.Context) (*analyzer.CoverageResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	p := c.page.Context(ctx)
	res := &analyzer.CoverageResult{}

	info, err := p.Info()
	if err != nil {
		return nil, fmt.Errorf("provider: page info: %w", err)
	}
	res.PageURL = info.URL

	if c.opts.IncludeJS {
		take, err := (proto.ProfilerTakePreciseCoverage{}).Call(p)
		if err != nil {
			return nil, fmt.Errorf("provider: take js coverage: %w", err)
		}
		res.JS = jsRecords(take.Result)

		if err := (proto.ProfilerStopPreciseCoverage{}).Call(p); err != nil {
			c.logger.Warn("provider: stop js coverage failed", "error", err)
		}
	}

	if c.opts.IncludeCSS {
		stop, err := (proto.CSSStopRuleUsageTracking{}).Call(p)
		if err != nil {
			return nil, fmt.Errorf("provider: stop css coverage: %w", err)
		}
		res.CSS = cssRecords(stop.RuleUsage, c.sheets)
	}

	c.sheets = nil
	return res, nil
}

// jsRecords flattens Profiler script coverage into per-URL records. Ranges
// with a non-zero invocation count are the executed bytes; scripts without a
// URL (inline eval, extensions) are skipped.
func jsRecords(scripts []*proto.ProfilerScriptCoverage) []coverage.Record {
	type acc struct {
		length int64
		used   []coverage.Range
	}
	byURL := make(map[string]*acc)
	var order []string

	for _, sc := range scripts {
		if sc.URL == "" {
			continue
		}
		a := byURL[sc.URL]
		if a == nil {
			a = &acc{}
			byURL[sc.URL] = a
			order = append(order, sc.URL)
		}
		for _, fn := range sc.Functions {
			for _, r := range fn.Ranges {
				end := int64(r.EndOffset)
				if end > a.length {
					a.length = end
				}
				if r.Count > 0 {
					a.used = append(a.used, coverage.Range{Start: int64(r.StartOffset), End: end})
				}
			}
		}
	}

	out := make([]coverage.Record, 0, len(order))
	for _, url := range order {
		a := byURL[url]
		out = append(out, coverage.Record{
			URL:          url,
			SourceLength: a.length,
			Ranges:       MergeRanges(a.used),
		})
	}
	return out
}

// cssRecords groups rule usage by stylesheet and joins it with the sheet
// headers for URL and total length. Inline and constructed sheets have no
// source URL and are skipped.
func cssRecords(usage []*proto.CSSRuleUsage, sheets map[proto.CSSStyleSheetID]*proto.CSSCSSStyleSheetHeader) []coverage.Record {
	used := make(map[proto.CSSStyleSheetID][]coverage.Range)
	for _, u := range usage {
		if !u.Used {
			continue
		}
		used[u.StyleSheetID] = append(used[u.StyleSheetID], coverage.Range{
			Start: int64(u.StartOffset),
			End:   int64(u.EndOffset),
		})
	}

	ids := make([]proto.CSSStyleSheetID, 0, len(sheets))
	for id := range sheets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []coverage.Record
	for _, id := range ids {
		h := sheets[id]
		if h.SourceURL == "" {
			continue
		}
		out = append(out, coverage.Record{
			URL:          h.SourceURL,
			SourceLength: int64(h.Length),
			Ranges:       MergeRanges(used[id]),
		})
	}
	return out
}

// MergeRanges sorts ranges by start and coalesces overlapping or adjacent
// ones, so used-byte counting never counts a byte twice.
func MergeRanges(ranges []coverage.Range) []coverage.Range {
	if len(ranges) <= 1 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
