package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bundlescope/bundlescope/netchain"
)

func newTestServer(t *testing.T, a *Analyzer) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	a.RegisterHTTP(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	srv := newTestServer(t, a)

	var body struct {
		Status   string `json:"status"`
		Tracking bool   `json:"tracking"`
	}
	if code := getJSON(t, srv.URL+"/healthz", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Status != "ok" || body.Tracking {
		t.Errorf("body = %+v", body)
	}
}

func TestReportEndpointBeforeSession(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	srv := newTestServer(t, a)

	if code := getJSON(t, srv.URL+"/api/report", nil); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestReportEndpointPaginates(t *testing.T) {
	cov := &fakeCoverage{result: sampleResult()}
	a := newTestAnalyzer(cov, &fakeNetwork{})
	ctx := context.Background()
	if err := a.StartCoverage(ctx, StartOptions{IncludeJS: true, IncludeCSS: true}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := a.StopCoverage(ctx, PageOptions{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	srv := newTestServer(t, a)

	var body struct {
		JS struct {
			Entries []json.RawMessage `json:"entries"`
			Page    struct {
				TotalPages int `json:"total_pages"`
			} `json:"page"`
		} `json:"js"`
	}
	code := getJSON(t, srv.URL+"/api/report?page_size=1&page_idx=0", &body)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(body.JS.Entries) != 1 || body.JS.Page.TotalPages != 2 {
		t.Errorf("entries=%d total_pages=%d, want 1 and 2",
			len(body.JS.Entries), body.JS.Page.TotalPages)
	}
}

func TestChainsEndpoint(t *testing.T) {
	net := &fakeNetwork{reqs: []netchain.Request{
		{URL: "https://example.com/a.js", ResourceType: "Script", StartMs: 0, EndMs: 100, SizeBytes: 500, HasTiming: true},
		{URL: "https://example.com/b.js", ResourceType: "Script", StartMs: 120, EndMs: 260, SizeBytes: 700, HasTiming: true},
	}}
	a := newTestAnalyzer(&fakeCoverage{}, net)
	srv := newTestServer(t, a)

	var body struct {
		Chains []struct {
			Depth int `json:"depth"`
		} `json:"chains"`
		Merges []struct {
			CombinedBytes int64 `json:"combined_bytes"`
		} `json:"merges"`
	}
	if code := getJSON(t, srv.URL+"/api/chains", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(body.Chains) != 1 || body.Chains[0].Depth != 2 {
		t.Fatalf("chains = %+v", body.Chains)
	}
	if len(body.Merges) != 1 || body.Merges[0].CombinedBytes != 1200 {
		t.Errorf("merges = %+v", body.Merges)
	}
}

func TestChainsEndpointRejectsGarbageTime(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	srv := newTestServer(t, a)

	if code := getJSON(t, srv.URL+"/api/chains?min_chain_time_ms=abc", nil); code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestSuggestionsEndpointBeforeSession(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	srv := newTestServer(t, a)

	if code := getJSON(t, srv.URL+"/api/suggestions", nil); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}
