package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"subtext/internal/models"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient serves completions through OpenRouter's OpenAI-compatible
// API, which fronts the Qwen models.
type OpenRouterClient struct {
	llm     *openai.LLM
	modelID string
}

// NewOpenRouterClient builds a client for the given model ID. An empty apiKey
// falls back to OPENROUTER_API_KEY; a missing key fails construction.
func NewOpenRouterClient(apiKey, modelID string) (*OpenRouterClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter: missing API key (set OPENROUTER_API_KEY)")
	}

	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelID),
		openai.WithBaseURL(openRouterBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("openrouter: creating client: %w", err)
	}

	return &OpenRouterClient{llm: client, modelID: modelID}, nil
}

func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error) {
	return generate(ctx, c.llm, "openrouter", systemPrompt, userPrompt, cfg)
}
