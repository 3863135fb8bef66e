package main

import (
	"testing"

	"unified-thinking/internal/app"
)

// requireGraph skips the test if no Neo4j instance is reachable at the
// configured URI, the same convention used for integration tests elsewhere
// in this module.
func requireGraph(t *testing.T) *ServerComponents {
	t.Helper()
	components, err := InitializeServer()
	if err != nil {
		t.Skipf("neo4j not available, skipping: %v", err)
	}
	return components
}

func TestInitializeServer_WiresEveryComponent(t *testing.T) {
	components := requireGraph(t)
	defer components.Cleanup()

	if components.Config == nil {
		t.Error("Config not initialized")
	}
	if components.Logger == nil {
		t.Error("Logger not initialized")
	}
	if components.Graph == nil {
		t.Error("Graph client not initialized")
	}
	if components.Inference == nil {
		t.Error("Inference engine not initialized")
	}
	if components.Expander == nil {
		t.Error("Expander not initialized")
	}
	if components.Advisor == nil {
		t.Error("Advisor not initialized")
	}
	if components.Search == nil {
		t.Error("Search service not initialized")
	}
	if components.Similarity == nil {
		t.Error("Similarity engine not initialized")
	}
	if components.HTTP == nil {
		t.Error("HTTP server not initialized")
	}
}

func TestInitializeServer_Cleanup(t *testing.T) {
	components := requireGraph(t)

	if err := components.Cleanup(); err != nil {
		t.Errorf("Cleanup() failed: %v", err)
	}
}

func TestServerComponents_NilGraph(t *testing.T) {
	components := &ServerComponents{Core: &app.Core{}}
	if err := components.Cleanup(); err != nil {
		t.Errorf("Cleanup with nil graph should not error, got: %v", err)
	}
}
