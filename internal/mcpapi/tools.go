// Package mcpapi exposes the constraint-aware engineer recommender's search
// and similarity operations as MCP tools: one struct wrapping the core
// services, one RegisterTools method, one handler per tool returning a JSON
// mcp.CallToolResult alongside the typed response.
package mcpapi

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"unified-thinking/internal/types"
)

// SearchService is the search orchestrator's contract (C8).
type SearchService interface {
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)
}

// SimilarityService is the similarity engine's contract (C10).
type SimilarityService interface {
	FindSimilar(ctx context.Context, engineerID string, limit int) (*types.SimilarityResponse, error)
}

// Server wraps the search core as MCP tool handlers.
type Server struct {
	search SearchService
	sim    SimilarityService
}

func NewServer(search SearchService, sim SimilarityService) *Server {
	return &Server{search: search, sim: sim}
}

// RegisterTools registers every tool this server exposes on mcpServer.
func (s *Server) RegisterTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "search-engineers",
		Description: "Search the engineer knowledge graph against hiring-manager constraints, returning ranked matches with score breakdowns and, when results are sparse, conflict-set relaxation advice",
	}, s.handleSearchEngineers)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "similar-engineers",
		Description: "Find engineers most similar to a given engineer, ranked by skill, domain, seniority, and availability similarity",
	}, s.handleSimilarEngineers)
}

func (s *Server) handleSearchEngineers(ctx context.Context, req *mcp.CallToolRequest, input types.SearchRequest) (*mcp.CallToolResult, *types.SearchResponse, error) {
	resp, err := s.search.Search(ctx, &input)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

type similarEngineersInput struct {
	EngineerID string `json:"engineerId"`
	Limit      int    `json:"limit,omitempty"`
}

func (s *Server) handleSimilarEngineers(ctx context.Context, req *mcp.CallToolRequest, input similarEngineersInput) (*mcp.CallToolResult, *types.SimilarityResponse, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	resp, err := s.sim.FindSimilar(ctx, input.EngineerID, limit)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{Content: toJSONContent(resp)}, resp, nil
}

// toJSONContent marshals data as the tool's single text content block. The
// MCP client consumes the typed response value directly; the text block
// exists for transports/clients that only read Content.
func toJSONContent(data interface{}) []mcp.Content {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errData, _ := json.Marshal(map[string]string{"error": err.Error()})
		return []mcp.Content{&mcp.TextContent{Text: string(errData)}}
	}
	return []mcp.Content{&mcp.TextContent{Text: string(jsonData)}}
}
