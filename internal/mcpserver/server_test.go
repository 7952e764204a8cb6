package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/driftlab/driftwatch/internal/pipeline"
	"github.com/driftlab/driftwatch/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	db := testutil.TestStore(t)
	o := testutil.NewScriptedOracle().
		Reply("expert startup analyst", `{
			"problem": "manual reconciliation",
			"target_user": "accountants at mid-size EU logistics firms",
			"job_to_be_done": null,
			"solution": "AI assistant",
			"value_prop": null,
			"primary_channel_type": "cold_outreach",
			"primary_channel_description": "email 50 leads weekly",
			"hypothesis": "10% book a demo",
			"metric": "demo bookings",
			"timeframe": "4 weeks",
			"tech_feasibility_notes": null,
			"top_risks": [],
			"declared_next_steps": []
		}`).
		Reply("concreteness", `{"is_valid": true, "reason": "Concrete.", "improved_target_user": null}`).
		Reply("distribution strategy", `{"primary_channel_type": "cold_outreach", "primary_channel_description": "email 50 leads weekly", "other_channels": [], "issues": []}`).
		Reply("structured hypothesis", `{"hypothesis": "Template hypothesis.", "metric": "demo booking rate", "timeframe": "4 weeks", "issues": []}`).
		Reply("Design exactly 3", `[
			{"title": "Cold email batch", "channel_type": "cold_outreach", "steps": ["send"], "success_criteria": "5 demos", "time_cost": "1 week"},
			{"title": "Landing page", "channel_type": "cold_outreach", "steps": ["publish"], "success_criteria": "20% CTR", "time_cost": "3 days"},
			{"title": "Follow-up calls", "channel_type": "cold_outreach", "steps": ["call"], "success_criteria": "3 calls", "time_cost": "2 days"}
		]`)

	return New(pipeline.New(db, o), db)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "analyze_startup":
		result, err = srv.analyzeStartup(ctx, req)
	case "get_snapshot":
		result, err = srv.getSnapshot(ctx, req)
	case "snapshot_history":
		result, err = srv.snapshotHistory(ctx, req)
	case "list_startups":
		result, err = srv.listStartups(ctx, req)
	case "get_submission_guide":
		result, err = srv.getSubmissionGuide(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAnalyzeStartupTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "analyze_startup", map[string]interface{}{
		"startup_id": "acme",
		"input_text": "we help accountants reconcile invoices via cold email",
	})
	if r.IsError {
		t.Fatalf("analyze_startup error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"version": 1`) {
		t.Errorf("result missing version 1: %s", text)
	}
	if !strings.Contains(text, `"status": "OK"`) {
		t.Errorf("result missing OK status: %s", text)
	}
}

func TestAnalyzeStartupMissingArgs(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "analyze_startup", map[string]interface{}{"startup_id": "acme"})
	if !r.IsError {
		t.Error("expected error for missing input_text")
	}
}

func TestGetSnapshotMissing(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_snapshot", map[string]interface{}{"startup_id": "ghost"})
	if !r.IsError {
		t.Error("expected error for startup with no snapshots")
	}
}

func TestGetSnapshotAfterAnalyze(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "analyze_startup", map[string]interface{}{
		"startup_id": "acme",
		"input_text": "pitch",
	})

	r := callTool(t, srv, "get_snapshot", map[string]interface{}{"startup_id": "acme"})
	if r.IsError {
		t.Fatalf("get_snapshot error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"startup_id": "acme"`) {
		t.Errorf("snapshot = %s", resultText(r))
	}
}

func TestSnapshotHistoryTool(t *testing.T) {
	srv := testServer(t)
	for range 2 {
		_ = callTool(t, srv, "analyze_startup", map[string]interface{}{
			"startup_id": "acme",
			"input_text": "pitch",
		})
	}

	r := callTool(t, srv, "snapshot_history", map[string]interface{}{"startup_id": "acme"})
	if r.IsError {
		t.Fatalf("snapshot_history error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"version": 1`) || !strings.Contains(text, `"version": 2`) {
		t.Errorf("history = %s, want versions 1 and 2", text)
	}
}

func TestListStartupsTool(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "analyze_startup", map[string]interface{}{
		"startup_id": "acme",
		"input_text": "pitch",
	})

	r := callTool(t, srv, "list_startups", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("list_startups error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"acme"`) {
		t.Errorf("list = %s", resultText(r))
	}
}

func TestGetSubmissionGuide(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_submission_guide", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "Target user") {
		t.Errorf("guide should describe the target user dimension: %s", text)
	}
	if !strings.Contains(text, "cold_outreach") {
		t.Errorf("guide should list the channel enum: %s", text)
	}
}
