package main

import (
	"unified-thinking/internal/app"
	"unified-thinking/internal/httpapi"
)

// ServerComponents holds the wired core plus the HTTP transport. Extracted
// from main() so InitializeServer can be exercised in tests without starting
// the HTTP listener.
type ServerComponents struct {
	*app.Core
	HTTP *httpapi.Server
}

// InitializeServer wires the shared core (config, graph driver, rule engine,
// every C1-C11 component) and layers the HTTP surface on top of it.
func InitializeServer() (*ServerComponents, error) {
	core, err := app.Build()
	if err != nil {
		return nil, err
	}

	httpServer := httpapi.NewServer(core.Search, core.Similarity, core.Graph, core.Config.Critique, core.Config.Seniority, core.Logger)

	return &ServerComponents{
		Core: core,
		HTTP: httpServer,
	}, nil
}

// Cleanup releases every resource InitializeServer opened.
func (c *ServerComponents) Cleanup() error {
	return c.Core.Close()
}
