package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bundlescope/bundlescope/netchain"
)

var testMCPImpl = &mcp.Implementation{Name: "bundlescope-test", Version: "0.1.0"}

func mcpSession(t *testing.T, a *Analyzer) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	a.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func mcpCallToolErr(t *testing.T, session *mcp.ClientSession, name string, args any) error {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if !result.IsError {
		return nil
	}
	if len(result.Content) > 0 {
		if tc, ok := result.Content[0].(*mcp.TextContent); ok {
			return errors.New(tc.Text)
		}
	}
	return errors.New("tool error")
}

func TestMCP_CoverageLifecycle(t *testing.T) {
	cov := &fakeCoverage{result: sampleResult()}
	a := newTestAnalyzer(cov, &fakeNetwork{})
	session := mcpSession(t, a)

	mcpCallTool(t, session, "coverage_start", map[string]any{})
	if !a.State().Running() {
		t.Fatal("not tracking after coverage_start")
	}
	if !cov.lastOpts.IncludeJS || !cov.lastOpts.IncludeCSS {
		t.Error("both types should default on")
	}

	text := mcpCallTool(t, session, "coverage_stop", map[string]any{})
	if !strings.Contains(text, "lib.js") || !strings.Contains(text, "app.css") {
		t.Errorf("report text missing entries:\n%s", text)
	}
	if a.State().Running() {
		t.Fatal("still tracking after coverage_stop")
	}

	// Re-window without collecting again.
	text = mcpCallTool(t, session, "coverage_report", map[string]any{"page_size": 1, "page_idx": 1})
	if !strings.Contains(text, "page 2 of 2") {
		t.Errorf("pagination footer missing:\n%s", text)
	}
}

func TestMCP_CoverageStopWhileIdle(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	session := mcpSession(t, a)

	if err := mcpCallToolErr(t, session, "coverage_stop", map[string]any{}); err == nil {
		t.Fatal("expected tool error for stop while idle")
	}
}

func TestMCP_BundleChains(t *testing.T) {
	net := &fakeNetwork{reqs: []netchain.Request{
		{URL: "https://example.com/a.js", ResourceType: "Script", StartMs: 0, EndMs: 100, SizeBytes: 1000, HasTiming: true},
		{URL: "https://example.com/b.js", ResourceType: "Script", StartMs: 120, EndMs: 260, SizeBytes: 2000, HasTiming: true},
	}}
	a := newTestAnalyzer(&fakeCoverage{}, net)
	session := mcpSession(t, a)

	text := mcpCallTool(t, session, "bundle_chains", map[string]any{})
	if !strings.Contains(text, "a.js") || !strings.Contains(text, "b.js") {
		t.Errorf("chain text missing scripts:\n%s", text)
	}

	// An explicit zero floor keeps short chains visible too.
	text = mcpCallTool(t, session, "bundle_chains", map[string]any{"min_chain_time_ms": 0})
	if !strings.Contains(text, "a.js") {
		t.Errorf("explicit zero floor lost the chain:\n%s", text)
	}
}

func TestMCP_CodeSplitSuggestionsBeforeSession(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	session := mcpSession(t, a)

	if err := mcpCallToolErr(t, session, "code_split_suggestions", map[string]any{}); err == nil {
		t.Fatal("expected tool error before any coverage session")
	}
}

func TestMCP_NavigateToolHiddenWithoutNavigator(t *testing.T) {
	a := newTestAnalyzer(&fakeCoverage{}, &fakeNetwork{})
	session := mcpSession(t, a)

	tools, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	for _, tool := range tools.Tools {
		if tool.Name == "navigate" {
			t.Error("navigate tool registered without a navigator")
		}
	}
}
