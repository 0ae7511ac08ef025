package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"subtext/internal/llm"
	"subtext/internal/models"
)

// Experiment is the parsed experiment.yaml configuration. Invalid
// configuration fails at load time, before any trial executes.
type Experiment struct {
	Name              *string     `yaml:"name,omitempty"`
	OutputsDir        string      `yaml:"outputs_dir"`
	SenderModel       string      `yaml:"sender_model"`
	MonitorModel      string      `yaml:"monitor_model"`
	TrialsPerLabel    int         `yaml:"trials_per_label"`
	QuestionsPerTrial int         `yaml:"questions_per_trial"`
	NConcurrentTrials int         `yaml:"n_concurrent_trials"`
	MaxInFlight       int64       `yaml:"max_in_flight"`
	Seed              int64       `yaml:"seed"`
	Temperature       float64     `yaml:"temperature"`
	MaxTokens         int         `yaml:"max_tokens"`
	Retry             RetryConfig `yaml:"retry,omitempty"`
	SuitePath         string      `yaml:"suite,omitempty"`
}

type RetryConfig struct {
	MaxAttempts    int     `yaml:"max_attempts"`
	InitialDelayMs int     `yaml:"initial_delay_ms"`
	MaxDelayMs     int     `yaml:"max_delay_ms"`
	Multiplier     float64 `yaml:"multiplier"`
}

// DefaultExperiment returns an Experiment with default values.
func DefaultExperiment() Experiment {
	return Experiment{
		OutputsDir:        "outputs",
		MonitorModel:      "gpt-5",
		TrialsPerLabel:    10,
		QuestionsPerTrial: 10,
		NConcurrentTrials: 1,
		MaxInFlight:       50,
		Temperature:       1.0,
		MaxTokens:         2048,
		Retry: RetryConfig{
			MaxAttempts:    3,
			InitialDelayMs: 1000,
			MaxDelayMs:     30000,
			Multiplier:     2.0,
		},
	}
}

// Load reads and parses an experiment.yaml file, applying defaults for
// missing values.
func Load(path string) (Experiment, error) {
	cfg := DefaultExperiment()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading experiment config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing experiment config: %w", err)
	}

	// Apply defaults for zeroed values
	if cfg.OutputsDir == "" {
		cfg.OutputsDir = "outputs"
	}
	if cfg.MonitorModel == "" {
		cfg.MonitorModel = "gpt-5"
	}
	if cfg.TrialsPerLabel == 0 {
		cfg.TrialsPerLabel = 10
	}
	if cfg.QuestionsPerTrial == 0 {
		cfg.QuestionsPerTrial = 10
	}
	if cfg.NConcurrentTrials == 0 {
		cfg.NConcurrentTrials = 1
	}
	if cfg.MaxInFlight == 0 {
		cfg.MaxInFlight = 50
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1.0
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	return cfg, nil
}

// Validate checks the configuration against the model registry and the suite
// it will run with. Any failure here aborts the run before trials begin.
func (e Experiment) Validate(suite Suite) error {
	if e.SenderModel == "" {
		return fmt.Errorf("sender_model is required")
	}
	if _, ok := models.LookupModel(e.SenderModel); !ok {
		return fmt.Errorf("unknown sender_model: %q", e.SenderModel)
	}
	if _, ok := models.LookupModel(e.MonitorModel); !ok {
		return fmt.Errorf("unknown monitor_model: %q", e.MonitorModel)
	}
	if e.TrialsPerLabel < 1 {
		return fmt.Errorf("trials_per_label must be >= 1, got %d", e.TrialsPerLabel)
	}
	if e.NConcurrentTrials < 1 {
		return fmt.Errorf("n_concurrent_trials must be >= 1, got %d", e.NConcurrentTrials)
	}
	if len(suite.Labels) == 0 {
		return fmt.Errorf("label set is empty")
	}
	if len(suite.Tasks) == 0 {
		return fmt.Errorf("task set is empty")
	}
	if len(suite.Questions) == 0 {
		return fmt.Errorf("question pool is empty")
	}
	if e.QuestionsPerTrial < 1 {
		return fmt.Errorf("questions_per_trial must be >= 1, got %d", e.QuestionsPerTrial)
	}
	if e.QuestionsPerTrial > len(suite.Questions) {
		return fmt.Errorf("questions_per_trial (%d) exceeds question pool size (%d)",
			e.QuestionsPerTrial, len(suite.Questions))
	}
	return nil
}

// SampleConfig returns the sender/receiver sampling parameters.
func (e Experiment) SampleConfig() models.SampleConfig {
	return models.SampleConfig{
		Temperature: e.Temperature,
		MaxTokens:   e.MaxTokens,
	}
}

// RetryPolicy converts the config retry block into the client decorator's
// form.
func (e Experiment) RetryPolicy() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts:  e.Retry.MaxAttempts,
		InitialDelay: time.Duration(e.Retry.InitialDelayMs) * time.Millisecond,
		MaxDelay:     time.Duration(e.Retry.MaxDelayMs) * time.Millisecond,
		Multiplier:   e.Retry.Multiplier,
	}
}
