package config

import (
	"os"
	"path/filepath"
	"testing"

	"unified-thinking/internal/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Name != "engineer-recommender" {
		t.Errorf("Expected server name 'engineer-recommender', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Expected environment 'development', got '%s'", cfg.Server.Environment)
	}

	if cfg.Graph.URI != "bolt://localhost:7687" {
		t.Errorf("Expected default graph URI, got '%s'", cfg.Graph.URI)
	}

	rng, ok := cfg.Seniority.Ranges[types.SeniorityPrincipal]
	if !ok || rng.Min != 15 || rng.Max != 0 {
		t.Errorf("Expected principal range {15,0}, got %+v (ok=%v)", rng, ok)
	}

	if cfg.Inference.MaxIterations != 10 {
		t.Errorf("Expected MaxIterations 10, got %d", cfg.Inference.MaxIterations)
	}
	if cfg.Advisor.Threshold != 5 {
		t.Errorf("Expected advisor threshold 5, got %d", cfg.Advisor.Threshold)
	}
	if cfg.Similarity.CorrelationThreshold != 0.7 {
		t.Errorf("Expected correlation threshold 0.7, got %v", cfg.Similarity.CorrelationThreshold)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Server.Name != "engineer-recommender" {
		t.Errorf("Expected default server name, got '%s'", cfg.Server.Name)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)

	_ = os.Setenv("ENGREC_SERVER_NAME", "test-server")
	_ = os.Setenv("ENGREC_SERVER_ENVIRONMENT", "production")
	_ = os.Setenv("NEO4J_URI", "bolt://db.internal:7687")
	_ = os.Setenv("ENGREC_ADVISOR_THRESHOLD", "8")
	_ = os.Setenv("ENGREC_INFERENCE_MAX_ITERATIONS", "3")
	_ = os.Setenv("ENGREC_LOGGING_LEVEL", "debug")
	defer clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Name != "test-server" {
		t.Errorf("Expected server name 'test-server', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Environment != "production" {
		t.Errorf("Expected environment 'production', got '%s'", cfg.Server.Environment)
	}
	if cfg.Graph.URI != "bolt://db.internal:7687" {
		t.Errorf("Expected graph URI override, got '%s'", cfg.Graph.URI)
	}
	if cfg.Advisor.Threshold != 8 {
		t.Errorf("Expected advisor threshold 8, got %d", cfg.Advisor.Threshold)
	}
	if cfg.Inference.MaxIterations != 3 {
		t.Errorf("Expected MaxIterations 3, got %d", cfg.Inference.MaxIterations)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"server": {
			"name": "file-server",
			"version": "2.0.0",
			"environment": "staging"
		},
		"graph": {
			"uri": "bolt://file-host:7687",
			"database": "engineers"
		},
		"advisor": {
			"threshold": 7,
			"insufficientThreshold": 2,
			"maxConflictSets": 4
		},
		"logging": {
			"level": "warn",
			"format": "text"
		}
	}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	clearEnv(t)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Server.Name != "file-server" {
		t.Errorf("Expected server name 'file-server', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Version != "2.0.0" {
		t.Errorf("Expected version '2.0.0', got '%s'", cfg.Server.Version)
	}
	if cfg.Graph.URI != "bolt://file-host:7687" {
		t.Errorf("Expected graph URI from file, got '%s'", cfg.Graph.URI)
	}
	if cfg.Advisor.Threshold != 7 {
		t.Errorf("Expected advisor threshold 7, got %d", cfg.Advisor.Threshold)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected log format 'text', got '%s'", cfg.Logging.Format)
	}
	// Unset sections should retain defaults rather than zero values.
	if cfg.Seniority.Ranges[types.SeniorityJunior].Max != 3 {
		t.Errorf("Expected default junior range to survive partial file load, got %+v", cfg.Seniority.Ranges[types.SeniorityJunior])
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"server": {
			"name": "file-server",
			"environment": "staging"
		}
	}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	clearEnv(t)
	_ = os.Setenv("ENGREC_SERVER_NAME", "env-server")
	defer clearEnv(t)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Server.Name != "env-server" {
		t.Errorf("Expected server name 'env-server' (env override), got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Expected environment 'staging' (from file), got '%s'", cfg.Server.Environment)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := Default()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid default config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty server name",
			mutate:  func(c *Config) { c.Server.Name = "" },
			wantErr: true,
			errMsg:  "server.name cannot be empty",
		},
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.Server.Environment = "invalid" },
			wantErr: true,
			errMsg:  "server.environment must be one of",
		},
		{
			name:    "empty graph uri",
			mutate:  func(c *Config) { c.Graph.URI = "" },
			wantErr: true,
			errMsg:  "graph.uri cannot be empty",
		},
		{
			name:    "invalid inference max iterations",
			mutate:  func(c *Config) { c.Inference.MaxIterations = 0 },
			wantErr: true,
			errMsg:  "inference.maxIterations must be >= 1",
		},
		{
			name:    "negative advisor threshold",
			mutate:  func(c *Config) { c.Advisor.Threshold = -1 },
			wantErr: true,
			errMsg:  "advisor.threshold cannot be negative",
		},
		{
			name:    "invalid similarity correlation threshold",
			mutate:  func(c *Config) { c.Similarity.CorrelationThreshold = 1.5 },
			wantErr: true,
			errMsg:  "similarity.correlationThreshold must be within [0,1]",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
			errMsg:  "logging.level must be one of",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
			errMsg:  "logging.format must be 'text' or 'json'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, should contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	cfg := Default()
	data, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("ToJSON() returned empty data")
	}
	jsonStr := string(data)
	if !contains(jsonStr, "server") {
		t.Error("JSON should contain 'server' field")
	}
	if !contains(jsonStr, "weights") {
		t.Error("JSON should contain 'weights' field")
	}
}

func TestSaveToFile(t *testing.T) {
	cfg := Default()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved-config.json")

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() failed: %v", err)
	}

	loadedCfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() after save failed: %v", err)
	}
	if loadedCfg.Server.Name != cfg.Server.Name {
		t.Errorf("Loaded config doesn't match saved config: %s != %s", loadedCfg.Server.Name, cfg.Server.Name)
	}
}

// Helper functions

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"ENGREC_SERVER_NAME",
		"ENGREC_SERVER_ENVIRONMENT",
		"ENGREC_HTTP_ADDR",
		"NEO4J_URI",
		"NEO4J_USERNAME",
		"NEO4J_PASSWORD",
		"NEO4J_DATABASE",
		"NEO4J_TIMEOUT_MS",
		"ENGREC_ADVISOR_THRESHOLD",
		"ENGREC_ADVISOR_INSUFFICIENT_THRESHOLD",
		"ENGREC_INFERENCE_MAX_ITERATIONS",
		"ENGREC_INFERENCE_RULESET_PATH",
		"ENGREC_LOGGING_LEVEL",
		"ENGREC_LOGGING_FORMAT",
	}

	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func contains(s, substr string) bool {
	if len(s) == 0 || len(substr) == 0 {
		return false
	}
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
