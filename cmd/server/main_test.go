package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPServer_HealthEndpoint(t *testing.T) {
	components := requireGraph(t)
	defer components.Cleanup()

	ts := httptest.NewServer(components.HTTP.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHTTPServer_DBHealthEndpoint(t *testing.T) {
	components := requireGraph(t)
	defer components.Cleanup()

	ts := httptest.NewServer(components.HTTP.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/db-health")
	if err != nil {
		t.Fatalf("GET /db-health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from a live connection, got %d", resp.StatusCode)
	}
}
