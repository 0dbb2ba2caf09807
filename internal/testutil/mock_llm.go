// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"sync"
)

// MockLLM is an llm.Client double that records prompts and returns a
// canned response or error.
type MockLLM struct {
	mu       sync.Mutex
	Response string
	Err      error
	Calls    []string
}

func (m *MockLLM) Name() string {
	return "mock"
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount returns how many prompts were submitted.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
