package app

import (
	"testing"

	"go.uber.org/zap"

	"unified-thinking/internal/config"
)

func TestBuildLLMClient_DisabledWithoutAPIKey(t *testing.T) {
	client := buildLLMClient(config.LLMConfig{Enabled: false}, zap.NewNop())
	if client == nil {
		t.Fatal("expected a non-nil no-op client")
	}
}

func TestBuildLLMClient_EnabledWithoutAPIKeyStillFallsBack(t *testing.T) {
	client := buildLLMClient(config.LLMConfig{Enabled: true, APIKey: ""}, zap.NewNop())
	if client == nil {
		t.Fatal("expected a non-nil no-op client when no API key is configured")
	}
}
