// CLAUDE:SUMMARY Read-only HTTP surface over the analyzer: health, report, chains, suggestions, metrics.
package analyzer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bundlescope/bundlescope/session"
)

// RegisterHTTP registers the read-only JSON endpoints on a Chi router. The
// tracking lifecycle itself stays on MCP and the CLI; HTTP only reads what
// the session has produced.
func (a *Analyzer) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", a.handleHealth)
	r.Get("/api/report", a.handleReport)
	r.Get("/api/chains", a.handleChains)
	r.Get("/api/suggestions", a.handleSuggestions)
	if a.cfg.Metrics != nil {
		r.Get("/api/metrics", a.handleMetrics)
	}
}

func (a *Analyzer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"tracking": a.state.Running(),
	})
}

func (a *Analyzer) handleReport(w http.ResponseWriter, r *http.Request) {
	var page PageOptions
	page.PageSize = queryInt(r, "page_size", 0)
	page.PageIdx = queryInt(r, "page_idx", 0)

	report, err := a.CoverageReport(page)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *Analyzer) handleChains(w http.ResponseWriter, r *http.Request) {
	opts := ChainOptions{
		MinDepth:   queryInt(r, "min_chain_depth", 0),
		IncludeAll: r.URL.Query().Get("include_all") == "true",
	}
	if v := r.URL.Query().Get("min_chain_time_ms"); v != "" {
		ms, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "invalid min_chain_time_ms", http.StatusBadRequest)
			return
		}
		opts.MinTimeMs = ms
		opts.MinTimeSet = true
	}

	mr, err := a.MergeSuggestions(r.Context(), opts)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mr)
}

func (a *Analyzer) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var opts SuggestOptions
	if v := r.URL.Query().Get("min_bundle_size_kb"); v != "" {
		kb, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid min_bundle_size_kb", http.StatusBadRequest)
			return
		}
		opts.MinBundleSizeKB = kb
		opts.MinSizeSet = true
	}
	if v := r.URL.Query().Get("min_unused_percent"); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "invalid min_unused_percent", http.StatusBadRequest)
			return
		}
		opts.MinUnusedPercent = pct
		opts.MinUnusedSet = true
	}

	sr, err := a.CodeSplitSuggestions(opts)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

func (a *Analyzer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name parameter required", http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 100)

	points, err := a.cfg.Metrics.Query(name, limit)
	if err != nil {
		http.Error(w, "metrics query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "points": points})
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage. Range clamping happens in normalize, not here.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoReport):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrAlreadyRunning), errors.Is(err, session.ErrNotRunning):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
