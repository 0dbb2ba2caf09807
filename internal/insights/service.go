package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/csv-analyst/backend/internal/llm"
	"github.com/csv-analyst/backend/internal/models"
)

// Service runs insight and question prompts against an LLM client with a
// per-call deadline.
type Service struct {
	client  llm.Client
	timeout time.Duration
}

// NewService wraps an LLM client. client may be nil when no API key is
// configured; calls then fail with a clear error instead of panicking.
func NewService(client llm.Client, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Service{client: client, timeout: timeout}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Provider returns the configured provider name, or "none".
func (s *Service) Provider() string {
	if s.client == nil {
		return "none"
	}
	return s.client.Name()
}

// GenerateInsights produces the automatic dataset summary.
func (s *Service) GenerateInsights(ctx context.Context, eda *models.EDA) (string, error) {
	return s.generate(ctx, InsightPrompt(eda))
}

// Answer responds to a user question given a dataset sample.
func (s *Service) Answer(ctx context.Context, query string, sample *models.Sample) (string, error) {
	return s.generate(ctx, AskPrompt(query, sample))
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
