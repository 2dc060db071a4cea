// Package mcp registers the helpdesk tools on an MCP server, giving agent
// clients the same chat workflow the student endpoints expose.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avashist/campusdesk/internal/chatbot"
	"github.com/avashist/campusdesk/internal/db"
)

// mcpFallbackMessage is this entry point's wording for unmatched queries.
// The HTTP chat endpoint keeps its own; the two wordings have always
// differed and clients match on them.
const mcpFallbackMessage = "I'm not sure, but our support team will review your question soon."

// NewServer creates an MCPServer with the helpdesk tools registered.
func NewServer(database *db.DB) *server.MCPServer {
	srv := server.NewMCPServer(
		"campusdesk",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	resolver := chatbot.NewResolver(database)

	registerAskHelpdesk(srv, resolver)
	registerSearchFAQs(srv, database)
	registerListUnsolved(srv, database)
	registerDashboardStats(srv, database)

	return srv
}

// ServeStdio blocks, serving MCP over stdin/stdout.
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}

// --- ask_helpdesk ---

func registerAskHelpdesk(srv *server.MCPServer, resolver *chatbot.Resolver) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"student_id": map[string]string{"type": "integer", "description": "ID of the asking student"},
			"query_text": map[string]string{"type": "string", "description": "The question text"},
			"language":   map[string]any{"type": "string", "description": "Detected language code", "default": "en"},
		},
		"required": []string{"student_id", "query_text"},
	})
	tool := mcp.NewToolWithRawSchema("ask_helpdesk", "Ask the helpdesk bot a question; unmatched questions are queued for admin review", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		result, err := resolver.Resolve(intArg(args, "student_id", 0), stringArg(args, "query_text"),
			stringArg(args, "language"), mcpFallbackMessage)
		if err != nil {
			return mcp.NewToolResultError("ask_helpdesk: " + err.Error()), nil
		}
		return jsonResult(result)
	})
}

// --- search_faqs ---

func registerSearchFAQs(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]string{"type": "string", "description": "Text to match against FAQ questions"},
		},
		"required": []string{"query"},
	})
	tool := mcp.NewToolWithRawSchema("search_faqs", "Find the first FAQ whose question contains the query", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		faqs, err := database.ListFAQRefs()
		if err != nil {
			return mcp.NewToolResultError("search_faqs: " + err.Error()), nil
		}
		faq, ok := chatbot.Match(stringArg(req.GetArguments(), "query"), faqs)
		if !ok {
			return jsonResult(map[string]any{"matched": false})
		}
		return jsonResult(map[string]any{
			"matched":  true,
			"faq_id":   faq.ID,
			"question": faq.Question,
			"answer":   faq.Answer,
		})
	})
}

// --- list_unsolved ---

func registerListUnsolved(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	})
	tool := mcp.NewToolWithRawSchema("list_unsolved", "List student queries awaiting admin review, newest first", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		queries, err := database.ListUnsolvedQueries()
		if err != nil {
			return mcp.NewToolResultError("list_unsolved: " + err.Error()), nil
		}
		return jsonResult(queries)
	})
}

// --- dashboard_stats ---

func registerDashboardStats(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	})
	tool := mcp.NewToolWithRawSchema("dashboard_stats", "Helpdesk totals and FAQ success rate", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := chatbot.Report(database)
		if err != nil {
			return mcp.NewToolResultError("dashboard_stats: " + err.Error()), nil
		}
		return jsonResult(stats)
	})
}

// --- helpers ---

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return def
	}
}
