package llm

import (
	"fmt"

	"subtext/internal/models"
)

// NewClient creates the client for a model spec based on its provider.
// API keys come from the environment; a missing key fails here, before any
// trial executes.
func NewClient(spec models.ModelSpec) (Client, error) {
	switch spec.Provider {
	case models.ProviderAnthropic:
		return NewAnthropicClient("", spec.ModelID)

	case models.ProviderOpenAI:
		return NewOpenAIClient("", spec.ModelID)

	case models.ProviderOpenRouter:
		return NewOpenRouterClient("", spec.ModelID)

	default:
		return nil, fmt.Errorf("unknown provider: %s", spec.Provider)
	}
}
