package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"subtext/internal/models"
)

// OpenAIClient serves completions from OpenAI models.
type OpenAIClient struct {
	llm     *openai.LLM
	modelID string
}

// NewOpenAIClient builds a client for the given model ID. An empty apiKey
// falls back to OPENAI_API_KEY; a missing key fails construction.
func NewOpenAIClient(apiKey, modelID string) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: missing API key (set OPENAI_API_KEY)")
	}

	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelID),
	)
	if err != nil {
		return nil, fmt.Errorf("openai: creating client: %w", err)
	}

	return &OpenAIClient{llm: client, modelID: modelID}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error) {
	return generate(ctx, c.llm, "openai", systemPrompt, userPrompt, cfg)
}
