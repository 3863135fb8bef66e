// Package main is the entry point for the constraint-aware engineer
// recommender's MCP server. It is designed to be spawned as a child process
// by an MCP client and communicates via stdio, exposing the same search and
// similarity core that backs the HTTP surface (cmd/server) as two MCP tools.
package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"unified-thinking/internal/app"
	"unified-thinking/internal/mcpapi"
)

func main() {
	core, err := app.Build()
	if err != nil {
		panic(err)
	}
	logger := core.Logger
	defer func() {
		if err := core.Close(); err != nil {
			logger.Warn("cleanup failed", zap.Error(err))
		}
	}()

	srv := mcpapi.NewServer(core.Search, core.Similarity)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "engineer-recommender",
		Version: "1.0.0",
	}, nil)
	srv.RegisterTools(mcpServer)
	logger.Info("registered mcp tools", zap.Strings("tools", []string{"search-engineers", "similar-engineers"}))

	transport := &mcp.StdioTransport{}
	logger.Info("starting mcp server over stdio")
	if err := mcpServer.Run(context.Background(), transport); err != nil {
		logger.Fatal("mcp server error", zap.Error(err))
	}
}
