// Package llm provides the text-completion capability consumed by the
// experiment pipeline. Each backend exposes the same single-method contract;
// which backend answers is the controlled variable of the experiment.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"subtext/internal/models"
)

// Client obtains one text completion from a named backend.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error)
}

// TransportError wraps any backend failure: network, auth, rate limit, or an
// empty completion. It is trial-scoped; the runner records it and moves on.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// generate issues a single chat completion through a langchaingo model and
// normalizes failures into TransportError.
func generate(ctx context.Context, model llms.Model, provider, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error) {
	var messages []llms.MessageContent
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, userPrompt))

	resp, err := model.GenerateContent(ctx, messages,
		llms.WithTemperature(cfg.Temperature),
		llms.WithMaxTokens(cfg.MaxTokens),
	)
	if err != nil {
		return "", &TransportError{Provider: provider, Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", &TransportError{Provider: provider, Err: errors.New("empty completion")}
	}

	return resp.Choices[0].Content, nil
}
