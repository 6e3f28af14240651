// CLAUDE:SUMMARY Registers the analysis MCP tools: coverage start/stop/report, bundle chains, code-split suggestions, navigate.
package analyzer

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bundlescope/bundlescope/coverage"
	"github.com/bundlescope/bundlescope/kit"
	"github.com/bundlescope/bundlescope/suggest"
)

// RegisterMCP registers the analysis tools on an MCP server.
func (a *Analyzer) RegisterMCP(srv *mcp.Server) {
	a.registerCoverageStartTool(srv)
	a.registerCoverageStopTool(srv)
	a.registerCoverageReportTool(srv)
	a.registerBundleChainsTool(srv)
	a.registerCodeSplitTool(srv)
	if a.cfg.Navigator != nil {
		a.registerNavigateTool(srv)
	}
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- coverage_start ---

type coverageStartRequest struct {
	ResetOnNavigation bool  `json:"reset_on_navigation"`
	IncludeJS         *bool `json:"include_js,omitempty"`
	IncludeCSS        *bool `json:"include_css,omitempty"`
}

func (a *Analyzer) registerCoverageStartTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "coverage_start",
		Description: "Start tracking which JS/CSS bytes the page actually uses. Stop with coverage_stop to get the report.",
		InputSchema: inputSchema(map[string]any{
			"reset_on_navigation": map[string]any{"type": "boolean", "description": "Discard collected data when the page navigates (default: false)"},
			"include_js":          map[string]any{"type": "boolean", "description": "Track JavaScript coverage (default: true)"},
			"include_css":         map[string]any{"type": "boolean", "description": "Track CSS coverage (default: true)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*coverageStartRequest)
		opts := StartOptions{
			ResetOnNavigation: r.ResetOnNavigation,
			IncludeJS:         r.IncludeJS == nil || *r.IncludeJS,
			IncludeCSS:        r.IncludeCSS == nil || *r.IncludeCSS,
		}
		if err := a.StartCoverage(ctx, opts); err != nil {
			return nil, err
		}
		return map[string]any{"status": "tracking", "js": opts.IncludeJS, "css": opts.IncludeCSS}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (any, error) {
		return kit.DecodeJSON[coverageStartRequest](req)
	}, nil)
}

// --- coverage_stop ---

type pageRequest struct {
	PageSize int `json:"page_size"`
	PageIdx  int `json:"page_idx"`
}

func (r *pageRequest) options() PageOptions {
	return PageOptions{PageSize: r.PageSize, PageIdx: r.PageIdx}
}

var pageProperties = map[string]any{
	"page_size": map[string]any{"type": "integer", "description": "Files per page, 1-5 (default 5)"},
	"page_idx":  map[string]any{"type": "integer", "description": "Zero-based page index; out of range clamps to the last page"},
}

func (a *Analyzer) registerCoverageStopTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "coverage_stop",
		Description: "Stop coverage tracking and report unused bytes per file, sorted by waste. Summary covers all files regardless of pagination.",
		InputSchema: inputSchema(pageProperties, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*pageRequest)
		return a.StopCoverage(ctx, r.options())
	}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (any, error) {
		return kit.DecodeJSON[pageRequest](req)
	}, renderPagedReport)
}

func (a *Analyzer) registerCoverageReportTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "coverage_report",
		Description: "Re-read the last coverage report with different pagination. Does not collect new data.",
		InputSchema: inputSchema(pageProperties, nil),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*pageRequest)
		return a.CoverageReport(r.options())
	}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (any, error) {
		return kit.DecodeJSON[pageRequest](req)
	}, renderPagedReport)
}

func renderPagedReport(resp any) string {
	return coverage.RenderText(resp.(*coverage.PagedReport))
}

// --- bundle_chains ---

type chainsRequest struct {
	MinChainDepth  int      `json:"min_chain_depth"`
	MinChainTimeMs *float64 `json:"min_chain_time_ms,omitempty"`
	IncludeAll     bool     `json:"include_all"`
}

func (a *Analyzer) registerBundleChainsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "bundle_chains",
		Description: "Detect scripts that load sequentially (each discovered only after the previous finished) and propose merge candidates.",
		InputSchema: inputSchema(map[string]any{
			"min_chain_depth":   map[string]any{"type": "integer", "description": "Minimum scripts per chain, at least 2 (default 2)"},
			"min_chain_time_ms": map[string]any{"type": "number", "description": "Minimum total chain time in ms (default 100)"},
			"include_all":       map[string]any{"type": "boolean", "description": "Include requests without resolved timing (default: false)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*chainsRequest)
		opts := ChainOptions{MinDepth: r.MinChainDepth, IncludeAll: r.IncludeAll}
		if r.MinChainTimeMs != nil {
			opts.MinTimeMs = *r.MinChainTimeMs
			opts.MinTimeSet = true
		}
		return a.MergeSuggestions(ctx, opts)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (any, error) {
		return kit.DecodeJSON[chainsRequest](req)
	}, func(resp any) string {
		mr := resp.(*MergeReport)
		return suggest.RenderChains(mr.Chains, mr.Merges)
	})
}

// --- code_split_suggestions ---

type codeSplitRequest struct {
	MinBundleSizeKB  *int     `json:"min_bundle_size_kb,omitempty"`
	MinUnusedPercent *float64 `json:"min_unused_percent,omitempty"`
}

func (a *Analyzer) registerCodeSplitTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "code_split_suggestions",
		Description: "Prioritized bundle-split suggestions from the last coverage report: wasted bytes, lazy-load candidates, and lighter alternatives for recognized heavy dependencies.",
		InputSchema: inputSchema(map[string]any{
			"min_bundle_size_kb": map[string]any{"type": "integer", "description": "Ignore bundles smaller than this (default 50)"},
			"min_unused_percent": map[string]any{"type": "number", "description": "Ignore bundles with less unused share than this, 0-100 (default 20)"},
		}, nil),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*codeSplitRequest)
		var opts SuggestOptions
		if r.MinBundleSizeKB != nil {
			opts.MinBundleSizeKB = *r.MinBundleSizeKB
			opts.MinSizeSet = true
		}
		if r.MinUnusedPercent != nil {
			opts.MinUnusedPercent = *r.MinUnusedPercent
			opts.MinUnusedSet = true
		}
		return a.CodeSplitSuggestions(opts)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (any, error) {
		return kit.DecodeJSON[codeSplitRequest](req)
	}, func(resp any) string {
		sr := resp.(*SuggestReport)
		return suggest.RenderSuggestions(sr.Suggestions, sr.LazyLoad)
	})
}

// --- navigate ---

type navigateRequest struct {
	URL string `json:"url"`
}

func (a *Analyzer) registerNavigateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "navigate",
		Description: "Navigate the analysis session to a new page.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Absolute URL to load"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*navigateRequest)
		if err := a.Navigate(ctx, r.URL); err != nil {
			return nil, err
		}
		return map[string]string{"status": "navigated", "url": r.URL}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (any, error) {
		return kit.DecodeJSON[navigateRequest](req)
	}, nil)
}
