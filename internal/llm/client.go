// Package llm provides text-generation clients for the supported AI
// providers behind a single interface.
package llm

import "context"

// Client generates a text completion for a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
