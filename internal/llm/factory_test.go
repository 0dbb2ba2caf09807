package llm

import (
	"strings"
	"testing"

	"github.com/csv-analyst/backend/internal/config"
)

func TestNewClient(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "sk-test")

	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantName string
		wantErr  string
	}{
		{
			name:     "gemini",
			cfg:      config.LLMConfig{Provider: "gemini", APIKeyEnv: "TEST_LLM_KEY"},
			wantName: "gemini",
		},
		{
			name:     "openai",
			cfg:      config.LLMConfig{Provider: "openai", APIKeyEnv: "TEST_LLM_KEY"},
			wantName: "openai",
		},
		{
			name:     "claude",
			cfg:      config.LLMConfig{Provider: "claude", APIKeyEnv: "TEST_LLM_KEY"},
			wantName: "claude",
		},
		{
			name:     "anthropic alias",
			cfg:      config.LLMConfig{Provider: "anthropic", APIKeyEnv: "TEST_LLM_KEY"},
			wantName: "claude",
		},
		{
			name:    "unknown provider",
			cfg:     config.LLMConfig{Provider: "llama", APIKeyEnv: "TEST_LLM_KEY"},
			wantErr: "unknown LLM provider",
		},
		{
			name:    "missing key",
			cfg:     config.LLMConfig{Provider: "gemini", APIKeyEnv: "TEST_LLM_KEY_UNSET"},
			wantErr: "API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Name() != tt.wantName {
				t.Errorf("expected provider %q, got %q", tt.wantName, client.Name())
			}
		})
	}
}
