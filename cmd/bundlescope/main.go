// CLAUDE:SUMMARY CLI entry point for bundlescope: one-shot page analysis, MCP stdio server, and HTTP API modes.
// Command bundlescope analyses how a web page loads and uses its JS and CSS.
//
// Usage:
//
//	bundlescope -url https://example.com        # one-shot analysis to stdout
//	bundlescope -mcp                            # MCP server on stdio
//	bundlescope -http :8087                     # read-only JSON API
//	bundlescope -config bundlescope.yaml -mcp   # with a config file
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/bundlescope/bundlescope/analyzer"
	"github.com/bundlescope/bundlescope/coverage"
	"github.com/bundlescope/bundlescope/internal/browser"
	"github.com/bundlescope/bundlescope/internal/config"
	"github.com/bundlescope/bundlescope/internal/provider"
	"github.com/bundlescope/bundlescope/observability"
	"github.com/bundlescope/bundlescope/suggest"
)

func main() {
	configPath := flag.String("config", "", "path to bundlescope.yaml config file")
	singleURL := flag.String("url", "", "analyse a single URL and print the report")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio")
	httpAddr := flag.String("http", "", "serve the JSON API on this address")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *mcpMode, *httpAddr); err != nil {
		logger.Error("bundlescope: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL string, mcpMode bool, httpAddr string) error {
	if !mcpMode && httpAddr == "" && singleURL == "" {
		fmt.Fprintln(os.Stderr, "usage: bundlescope -url <url> | -mcp | -http <addr>")
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}

	table := suggest.DefaultTable()
	if cfg.Analysis.AlternativesPath != "" {
		t, err := suggest.LoadTable(cfg.Analysis.AlternativesPath)
		if err != nil {
			return fmt.Errorf("load alternatives table: %w", err)
		}
		table = t
	}

	var metrics *observability.Metrics
	if cfg.Observability.DBPath != "" {
		db, err := observability.Open(cfg.Observability.DBPath)
		if err != nil {
			return fmt.Errorf("open metrics store: %w", err)
		}
		defer db.Close()
		metrics = observability.NewMetrics(db, cfg.Observability.BufferSize, cfg.Observability.FlushInterval)
		defer metrics.Close()
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL:   cfg.Browser.Remote,
		Headless:    cfg.Browser.Headless,
		Stealth:     cfg.Browser.Stealth,
		UserAgent:   cfg.Browser.UserAgent,
		LoadTimeout: cfg.Browser.LoadTimeout,
		Logger:      logger,
	})
	if err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	page := mgr.Page()
	network := provider.NewNetwork(page, logger)
	if err := network.Start(ctx); err != nil {
		return err
	}
	defer network.Stop()

	a := analyzer.New(analyzer.Config{
		Coverage:       provider.NewCoverage(page, logger),
		Network:        network,
		Navigator:      mgr,
		Table:          table,
		VendorPatterns: cfg.Analysis.VendorPatterns,
		Metrics:        metrics,
		Logger:         logger,
	})

	if singleURL != "" {
		return runSingle(ctx, a, singleURL)
	}

	if mcpMode {
		if httpAddr != "" {
			go serveHTTP(ctx, logger, a, cfg.HTTP.Addr)
		}
		return runMCP(ctx, logger, a)
	}

	serveHTTP(ctx, logger, a, cfg.HTTP.Addr)
	return nil
}

// runSingle analyses one page and prints the full report to stdout.
func runSingle(ctx context.Context, a *analyzer.Analyzer, url string) error {
	if err := a.StartCoverage(ctx, analyzer.StartOptions{IncludeJS: true, IncludeCSS: true}); err != nil {
		return err
	}
	if err := a.Navigate(ctx, url); err != nil {
		return err
	}

	report, err := a.StopCoverage(ctx, analyzer.PageOptions{})
	if err != nil {
		return err
	}
	fmt.Println(coverage.RenderText(report))

	mr, err := a.MergeSuggestions(ctx, analyzer.ChainOptions{})
	if err != nil {
		return err
	}
	fmt.Println(suggest.RenderChains(mr.Chains, mr.Merges))

	sr, err := a.CodeSplitSuggestions(analyzer.SuggestOptions{})
	if err != nil {
		return err
	}
	fmt.Println(suggest.RenderSuggestions(sr.Suggestions, sr.LazyLoad))
	return nil
}

func runMCP(ctx context.Context, logger *slog.Logger, a *analyzer.Analyzer) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "bundlescope",
		Version: "1.0.0",
	}, nil)
	a.RegisterMCP(srv)

	logger.Info("bundlescope: mcp server starting on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, a *analyzer.Analyzer, addr string) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	a.RegisterHTTP(r)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info("bundlescope: http server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("bundlescope: http server", "error", err)
	}
}
