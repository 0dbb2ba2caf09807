package llm

import (
	"fmt"

	"github.com/csv-analyst/backend/internal/config"
)

// NewClient builds the provider named in the configuration.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(cfg.APIKey(), cfg.Model)
	case "openai":
		return NewOpenAIClient(cfg.APIKey(), cfg.Model, cfg.BaseURL)
	case "claude", "anthropic":
		return NewClaudeClient(cfg.APIKey(), cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
