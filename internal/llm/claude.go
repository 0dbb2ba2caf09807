package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// ClaudeClient talks to the Anthropic messages API.
type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

// NewClaudeClient creates a Claude client. baseURL may be empty for the
// default endpoint.
func NewClaudeClient(apiKey, model, baseURL string) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("claude: API key is empty")
	}
	if model == "" {
		model = "claude-3-5-sonnet-latest"
	}

	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}, nil
}

func (c *ClaudeClient) Name() string {
	return "claude"
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: 2000,
	})
	if err != nil {
		return "", fmt.Errorf("claude: create message: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return "", fmt.Errorf("claude: empty response")
	}
	return *resp.Content[0].Text, nil
}
