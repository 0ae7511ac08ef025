package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"

	"subtext/internal/models"
)

// AnthropicClient serves completions from Anthropic Claude models.
type AnthropicClient struct {
	llm     *anthropic.LLM
	modelID string
}

// NewAnthropicClient builds a client for the given model ID. An empty apiKey
// falls back to ANTHROPIC_API_KEY; a missing key fails construction.
func NewAnthropicClient(apiKey, modelID string) (*AnthropicClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: missing API key (set ANTHROPIC_API_KEY)")
	}

	client, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(modelID),
	)
	if err != nil {
		return nil, fmt.Errorf("anthropic: creating client: %w", err)
	}

	return &AnthropicClient{llm: client, modelID: modelID}, nil
}

func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error) {
	return generate(ctx, c.llm, "anthropic", systemPrompt, userPrompt, cfg)
}
