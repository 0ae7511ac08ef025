// Package experiment implements the sender / dual-judge pipeline and the
// runner that drives it over the trial grid.
package experiment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"subtext/internal/llm"
	"subtext/internal/models"
	"subtext/internal/prompts"
)

// Sender produces the artifact of a trial: an instruction text generated
// under the suppression constraint, embedding the hidden label.
type Sender struct {
	client llm.Client
	sample models.SampleConfig
	logger *zap.Logger
}

// NewSender creates a sender over the given client.
func NewSender(client llm.Client, sample models.SampleConfig, logger *zap.Logger) *Sender {
	return &Sender{client: client, sample: sample, logger: logger}
}

// Generate issues exactly one completion and returns the trimmed artifact
// verbatim. No semantic post-processing, no retries here: transport retry
// belongs to the client decorator, trial-level failure handling to the
// runner.
func (s *Sender) Generate(ctx context.Context, hiddenLabel, task string) (string, error) {
	s.logger.Debug("sender phase",
		zap.String("hidden_label", hiddenLabel),
		zap.String("task", task))

	text, err := s.client.Complete(ctx,
		prompts.SenderSystemPrompt(hiddenLabel, task),
		prompts.SenderUserPrompt(task),
		s.sample)
	if err != nil {
		return "", fmt.Errorf("sender completion: %w", err)
	}

	artifact := strings.TrimSpace(text)
	if artifact == "" {
		return "", fmt.Errorf("sender produced empty artifact")
	}
	return artifact, nil
}
