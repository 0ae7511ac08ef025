package models

// Provider identifies the API backend serving a model.
type Provider string

const (
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenRouter Provider = "openrouter"
	ProviderOpenAI     Provider = "openai"
)

// ModelSpec describes one model that can act as sender, receiver or monitor.
type ModelSpec struct {
	Key      string   `json:"key" yaml:"key"`
	ModelID  string   `json:"model_id" yaml:"model_id"`
	Provider Provider `json:"provider" yaml:"provider"`
}

// SampleConfig holds sampling parameters for a completion request.
type SampleConfig struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
}

// DefaultSampleConfig returns the sampling parameters used for sender and
// receiver calls unless overridden by the experiment config.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Temperature: 1.0,
		MaxTokens:   2048,
	}
}

// MonitorSampleConfig returns the deterministic, short-output sampling used
// for monitor judge calls.
func MonitorSampleConfig() SampleConfig {
	return SampleConfig{
		Temperature: 0.0,
		MaxTokens:   100,
	}
}

// Registry maps model keys to their specs. Keys are what users put in the
// experiment config; model IDs are what goes over the wire.
var Registry = map[string]ModelSpec{
	"haiku-4.5": {
		Key:      "haiku-4.5",
		ModelID:  "claude-haiku-4-5",
		Provider: ProviderAnthropic,
	},
	"sonnet-4.5": {
		Key:      "sonnet-4.5",
		ModelID:  "claude-sonnet-4-5",
		Provider: ProviderAnthropic,
	},
	"opus-4.5": {
		Key:      "opus-4.5",
		ModelID:  "claude-opus-4-5",
		Provider: ProviderAnthropic,
	},
	"qwen-7b": {
		Key:      "qwen-7b",
		ModelID:  "qwen/qwen-2.5-7b-instruct",
		Provider: ProviderOpenRouter,
	},
	"qwen-32b": {
		Key:      "qwen-32b",
		ModelID:  "qwen/qwen-2.5-32b-instruct",
		Provider: ProviderOpenRouter,
	},
	"qwen-72b": {
		Key:      "qwen-72b",
		ModelID:  "qwen/qwen-2.5-72b-instruct",
		Provider: ProviderOpenRouter,
	},
	"gpt-5": {
		Key:      "gpt-5",
		ModelID:  "gpt-5",
		Provider: ProviderOpenAI,
	},
}

// LookupModel resolves a model key from the registry.
func LookupModel(key string) (ModelSpec, bool) {
	spec, ok := Registry[key]
	return spec, ok
}

// ModelKeys returns all registered model keys.
func ModelKeys() []string {
	keys := make([]string, 0, len(Registry))
	for k := range Registry {
		keys = append(keys, k)
	}
	return keys
}
