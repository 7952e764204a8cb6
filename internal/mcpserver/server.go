// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Driftwatch analysis tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/driftlab/driftwatch/internal/apperr"
	"github.com/driftlab/driftwatch/internal/pipeline"
	"github.com/driftlab/driftwatch/internal/store"
)

// Server wraps the MCP server with Driftwatch tools.
type Server struct {
	mcp  *server.MCPServer
	pipe *pipeline.Pipeline
	db   store.Store
}

// New creates a new MCP server with all Driftwatch tools registered.
func New(pipe *pipeline.Pipeline, db store.Store) *Server {
	s := &Server{pipe: pipe, db: db}

	s.mcp = server.NewMCPServer(
		"Driftwatch",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("analyze_startup",
		mcp.WithDescription("Run the full reality-check pipeline on a founder's free-form "+
			"startup description: extract a versioned snapshot, enforce rigor on the "+
			"user/channel/hypothesis dimensions, classify drift against the previous "+
			"version, and return reviews, experiments, and an overall status. "+
			"Read the submission guide first via the get_submission_guide tool or the "+
			"driftwatch://submission-guide resource."),
		mcp.WithString("startup_id", mcp.Required(), mcp.Description("Stable identifier for the startup (created on first sight)")),
		mcp.WithString("input_text", mcp.Required(), mcp.Description("The founder's free-form description of the startup")),
	), s.analyzeStartup)

	s.mcp.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Read the latest committed snapshot for a startup."),
		mcp.WithString("startup_id", mcp.Required(), mcp.Description("Startup identifier")),
	), s.getSnapshot)

	s.mcp.AddTool(mcp.NewTool("snapshot_history",
		mcp.WithDescription("List all committed snapshots for a startup, ordered by version."),
		mcp.WithString("startup_id", mcp.Required(), mcp.Description("Startup identifier")),
	), s.snapshotHistory)

	s.mcp.AddTool(mcp.NewTool("list_startups",
		mcp.WithDescription("List all tracked startups with their latest snapshot version."),
	), s.listStartups)

	s.mcp.AddTool(mcp.NewTool("get_submission_guide",
		mcp.WithDescription("Returns the guide describing what a rigorous startup "+
			"submission covers. Call this before analyze_startup for best results."),
	), s.getSubmissionGuide)

	// Resource: submission guide.
	s.mcp.AddResource(
		mcp.NewResource("driftwatch://submission-guide", "Submission Guide",
			mcp.WithResourceDescription("What a rigorous startup submission should cover."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSubmissionGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) analyzeStartup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startupID, err := req.RequireString("startup_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inputText, err := req.RequireString("input_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pipe.Analyze(ctx, startupID, inputText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startupID, err := req.RequireString("startup_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.db.Latest(ctx, startupID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no snapshots for startup %q", startupID)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) snapshotHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startupID, err := req.RequireString("startup_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	history, err := s.db.History(ctx, startupID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(history, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listStartups(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startups, err := s.db.ListStartups(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(startups, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSubmissionGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SubmissionGuide), nil
}

func (s *Server) readSubmissionGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "driftwatch://submission-guide",
			MIMEType: "text/markdown",
			Text:     SubmissionGuide,
		},
	}, nil
}
