// CLAUDE:SUMMARY Orchestrates coverage tracking, chain detection and suggestion generation over provider contracts.
// Package analyzer orchestrates the resource-loading analysis of one browser
// session: it starts and stops byte-usage tracking through a coverage
// provider, reconstructs loading chains from a network provider, and feeds
// both into the suggestion heuristics.
//
// The analyzer never talks to a browser directly; providers are narrow
// contracts so tests substitute fakes and the engine stays synchronous over
// fully materialised inputs.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bundlescope/bundlescope/coverage"
	"github.com/bundlescope/bundlescope/netchain"
	"github.com/bundlescope/bundlescope/observability"
	"github.com/bundlescope/bundlescope/session"
	"github.com/bundlescope/bundlescope/suggest"
)

var (
	// ErrNoTypesEnabled is returned by StartCoverage when neither JS nor CSS
	// tracking is requested.
	ErrNoTypesEnabled = errors.New("analyzer: at least one of js or css must be enabled")
	// ErrNoReport is returned when an operation needs a coverage report but
	// no tracking session has completed yet.
	ErrNoReport = errors.New("analyzer: no coverage data available, run coverage_start and coverage_stop first")
)

// CoverageResult is what a coverage provider hands back when tracking stops.
type CoverageResult struct {
	PageURL string
	JS      []coverage.Record
	CSS     []coverage.Record
}

// CoverageProvider starts and stops per-resource byte-usage tracking on a
// live page. Begin and End may suspend on the browser; both must be awaited
// before the engine runs.
type CoverageProvider interface {
	Begin(ctx context.Context, opts session.Options, resetOnNavigation bool) error
	End(ctx context.Context) (*CoverageResult, error)
}

// NetworkProvider returns the network requests observed for the current
// page. Records without resolved timing are valid inputs.
type NetworkProvider interface {
	CurrentRequests(ctx context.Context, includeAll bool) ([]netchain.Request, error)
}

// Navigator optionally lets the serving surfaces point the session at a new
// page. Nil when the page is fixed (one-shot CLI mode).
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Config wires an Analyzer.
type Config struct {
	Coverage CoverageProvider
	Network  NetworkProvider
	// Navigator is optional; when set, a navigate tool is exposed over MCP.
	Navigator Navigator
	// Table is the heavy-dependency alternatives table. Nil = DefaultTable.
	Table *suggest.Table
	// VendorPatterns override the same-origin vendor-bundle naming
	// conventions. Nil = coverage.DefaultVendorPatterns.
	VendorPatterns []string
	// Metrics is optional operational telemetry.
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

func (c *Config) defaults() {
	if c.Table == nil {
		c.Table = suggest.DefaultTable()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Analyzer is safe for concurrent use; the session state serialises the
// tracking lifecycle and everything else is read-only over its inputs.
type Analyzer struct {
	cfg    Config
	state  *session.State
	logger *slog.Logger
}

// New creates an Analyzer. Coverage and Network must be non-nil.
func New(cfg Config) *Analyzer {
	cfg.defaults()
	return &Analyzer{
		cfg:    cfg,
		state:  session.New(),
		logger: cfg.Logger,
	}
}

// State exposes the session state for serving surfaces (HTTP status).
func (a *Analyzer) State() *session.State {
	return a.state
}

// StartOptions configure a tracking session.
type StartOptions struct {
	ResetOnNavigation bool
	IncludeJS         bool
	IncludeCSS        bool
}

// StartCoverage begins byte-usage tracking. Rejected with
// session.ErrAlreadyRunning while a session is live. When the provider fails
// the session is returned to idle, so a retry always has a clean slate.
func (a *Analyzer) StartCoverage(ctx context.Context, opts StartOptions) error {
	if !opts.IncludeJS && !opts.IncludeCSS {
		return ErrNoTypesEnabled
	}

	trackOpts := session.Options{IncludeJS: opts.IncludeJS, IncludeCSS: opts.IncludeCSS}
	if err := a.state.BeginTracking(trackOpts); err != nil {
		return err
	}

	if err := a.cfg.Coverage.Begin(ctx, trackOpts, opts.ResetOnNavigation); err != nil {
		a.state.ForceIdle()
		a.logger.Error("analyzer: start coverage failed", "error", err)
		return fmt.Errorf("analyzer: start coverage: %w", err)
	}

	a.logger.Info("analyzer: coverage tracking started",
		"js", opts.IncludeJS, "css", opts.IncludeCSS, "reset_on_navigation", opts.ResetOnNavigation)
	return nil
}

// StopCoverage ends tracking, builds the report, stores it as the session's
// last report, and returns it windowed by page. Rejected with
// session.ErrNotRunning while idle.
//
// The running flag is cleared before acquisition so the session never sticks
// in Running; the previous report is only replaced once the new one is fully
// built, so a failed stop keeps the last good report.
func (a *Analyzer) StopCoverage(ctx context.Context, page PageOptions) (*coverage.PagedReport, error) {
	opts, err := a.state.EndTracking()
	if err != nil {
		return nil, err
	}
	started := time.Now()

	res, err := a.cfg.Coverage.End(ctx)
	if err != nil {
		a.logger.Error("analyzer: stop coverage failed", "error", err)
		return nil, fmt.Errorf("analyzer: stop coverage: %w", err)
	}

	report := coverage.Build(res.PageURL, coverage.Input{
		JS:         res.JS,
		CSS:        res.CSS,
		IncludeJS:  opts.IncludeJS,
		IncludeCSS: opts.IncludeCSS,
	}, a.cfg.VendorPatterns)
	a.state.SetReport(report)

	if a.cfg.Metrics != nil {
		a.cfg.Metrics.RecordDuration("coverage_stop", time.Since(started),
			map[string]string{"page": res.PageURL})
		if report.JS != nil {
			a.cfg.Metrics.RecordCount("coverage_js_files", report.JS.Summary.FileCount)
		}
	}

	page.normalize()
	a.logger.Info("analyzer: coverage report built", "page", res.PageURL)
	return report.Paged(page.PageSize, page.PageIdx), nil
}

// CoverageReport re-windows the last built report without collecting again.
func (a *Analyzer) CoverageReport(page PageOptions) (*coverage.PagedReport, error) {
	report := a.state.Report()
	if report == nil {
		return nil, ErrNoReport
	}
	page.normalize()
	return report.Paged(page.PageSize, page.PageIdx), nil
}

// DetectChains fetches the current network records and reconstructs
// sequential script-loading chains.
func (a *Analyzer) DetectChains(ctx context.Context, opts ChainOptions) ([]netchain.Chain, error) {
	opts.normalize()

	reqs, err := a.cfg.Network.CurrentRequests(ctx, opts.IncludeAll)
	if err != nil {
		a.logger.Error("analyzer: fetch network records failed", "error", err)
		return nil, fmt.Errorf("analyzer: network records: %w", err)
	}

	started := time.Now()
	chains := netchain.Detect(reqs, opts.MinDepth, opts.MinTimeMs)

	if a.cfg.Metrics != nil {
		a.cfg.Metrics.RecordDuration("chain_detect", time.Since(started), nil)
		a.cfg.Metrics.RecordCount("chains_detected", len(chains))
	}
	a.logger.Info("analyzer: chain detection complete",
		"records", len(reqs), "chains", len(chains))
	return chains, nil
}

// SuggestReport bundles code-split suggestions with their lazy-load subset.
type SuggestReport struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
	LazyLoad    []suggest.Suggestion `json:"lazy_load"`
}

// CodeSplitSuggestions runs the bundle-split heuristics over the last
// coverage report's JS entries. Requires a completed tracking session that
// included JS.
func (a *Analyzer) CodeSplitSuggestions(opts SuggestOptions) (*SuggestReport, error) {
	report := a.state.Report()
	if report == nil || report.JS == nil {
		return nil, ErrNoReport
	}
	opts.normalize()

	suggestions := suggest.CodeSplit(report.JS.Entries, opts.MinBundleSizeKB, opts.MinUnusedPercent, a.cfg.Table)
	return &SuggestReport{
		Suggestions: suggestions,
		LazyLoad:    suggest.LazyLoad(suggestions),
	}, nil
}

// MergeReport bundles detected chains with their merge candidates.
type MergeReport struct {
	Chains []netchain.Chain         `json:"chains"`
	Merges []suggest.MergeCandidate `json:"merges"`
}

// MergeSuggestions detects chains and proposes merge candidates for them.
func (a *Analyzer) MergeSuggestions(ctx context.Context, opts ChainOptions) (*MergeReport, error) {
	chains, err := a.DetectChains(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &MergeReport{Chains: chains, Merges: suggest.Merges(chains)}, nil
}

// Navigate points the session at a new page when a Navigator is configured.
func (a *Analyzer) Navigate(ctx context.Context, url string) error {
	if a.cfg.Navigator == nil {
		return errors.New("analyzer: navigation not available in this mode")
	}
	if err := a.cfg.Navigator.Navigate(ctx, url); err != nil {
		return fmt.Errorf("analyzer: navigate: %w", err)
	}
	a.logger.Info("analyzer: navigated", "url", url)
	return nil
}
