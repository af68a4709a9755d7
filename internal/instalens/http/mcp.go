package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/instalens/instalens/internal/model"
)

func (s *Service) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"instalens",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.mcpSSEServer = server.NewSSEServer(s.mcpServer,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
	)
	s.mcpStreamableServer = server.NewStreamableHTTPServer(s.mcpServer,
		server.WithEndpointPath("/mcp"),
	)

	s.registerMCPTools()
}

func (s *Service) initMCPRouter() {
	s.router.Any("/mcp", func(c *gin.Context) { s.mcpStreamableServer.ServeHTTP(c.Writer, c.Request) })
	s.router.Any("/sse", func(c *gin.Context) { s.mcpSSEServer.ServeHTTP(c.Writer, c.Request) })
	s.router.Any("/message", func(c *gin.Context) { s.mcpSSEServer.ServeHTTP(c.Writer, c.Request) })
}

func (s *Service) registerMCPTools() {
	listTool := mcp.NewTool("list_relationships",
		mcp.WithDescription("List the relationships found in an ingested export session, largest first. Optionally filter by a case-insensitive name substring."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by the upload endpoint")),
		mcp.WithString("name", mcp.Description("Substring to match against contact names")),
	)
	s.mcpServer.AddTool(listTool, s.mcpListRelationships)

	queryTool := mcp.NewTool("query_relationship",
		mcp.WithDescription("Run the full analysis for one relationship: message volume per side, word and emoji usage, response behavior, shared content, communication gaps and the intensity score."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by the upload endpoint")),
		mcp.WithString("relationship_id", mcp.Required(), mcp.Description("Relationship id from list_relationships")),
	)
	s.mcpServer.AddTool(queryTool, s.mcpQueryRelationship)

	networkTool := mcp.NewTool("network_summary",
		mcp.WithDescription("Aggregate every relationship of a session into a network overview: closeness tiers and top-10 rankings by volume, balance, duration and responsiveness."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by the upload endpoint")),
	)
	s.mcpServer.AddTool(networkTool, s.mcpNetworkSummary)

	searchTool := mcp.NewTool("search_messages",
		mcp.WithDescription("Full-text search across a session's messages with optional relationship and sender filters."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by the upload endpoint")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query text")),
		mcp.WithString("relationship_id", mcp.Description("Restrict to one relationship")),
		mcp.WithString("sender", mcp.Description("Restrict to one sender name")),
		mcp.WithNumber("limit", mcp.Description("Number of hits to return (1-200, default 20)")),
	)
	s.mcpServer.AddTool(searchTool, s.mcpSearchMessages)
}

func (s *Service) mcpListRelationships(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := ""
	if v, ok := req.GetArguments()["name"].(string); ok {
		name = v
	}

	rels, err := s.app.FindRelationships(sessionID, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list relationships failed: %v", err)), nil
	}
	return toolJSON(gin.H{"items": rels, "count": len(rels)})
}

func (s *Service) mcpQueryRelationship(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	relationshipID, err := req.RequireString("relationship_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.app.Analyze(sessionID, relationshipID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return toolJSON(result)
}

func (s *Service) mcpNetworkSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, skipped, err := s.app.Network(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("network aggregation failed: %v", err)), nil
	}
	payload := gin.H{"summary": summary}
	if len(skipped) > 0 {
		payload["skipped"] = skipped
	}
	return toolJSON(payload)
}

func (s *Service) mcpSearchMessages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	searchReq := &model.SearchRequest{
		SessionID: sessionID,
		Query:     query,
	}
	args := req.GetArguments()
	if v, ok := args["relationship_id"].(string); ok {
		searchReq.Relationship = v
	}
	if v, ok := args["sender"].(string); ok {
		searchReq.Sender = v
	}
	if v, ok := args["limit"].(float64); ok && v >= 1 && v <= 200 {
		searchReq.Limit = int(v)
	}

	resp, err := s.app.Search(searchReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return toolJSON(resp)
}

func toolJSON(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
