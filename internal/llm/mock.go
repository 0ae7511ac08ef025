package llm

import (
	"context"
	"errors"
	"sync"

	"subtext/internal/models"
)

// Call records one request received by a ScriptedClient.
type Call struct {
	SystemPrompt string
	UserPrompt   string
	Sample       models.SampleConfig
}

// ScriptedClient is a test double that replays canned responses in order.
// Once the queue is exhausted it keeps returning Default; with no Default it
// fails with a TransportError.
type ScriptedClient struct {
	mu      sync.Mutex
	queue   []scripted
	Default string
	calls   []Call
}

type scripted struct {
	text string
	err  error
}

// NewScriptedClient queues the given responses.
func NewScriptedClient(responses ...string) *ScriptedClient {
	c := &ScriptedClient{}
	for _, r := range responses {
		c.queue = append(c.queue, scripted{text: r})
	}
	return c
}

// QueueError appends a failing response to the script.
func (c *ScriptedClient) QueueError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, scripted{err: err})
}

func (c *ScriptedClient) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Sample: cfg})

	if len(c.queue) == 0 {
		if c.Default != "" {
			return c.Default, nil
		}
		return "", &TransportError{Provider: "scripted", Err: errors.New("script exhausted")}
	}

	next := c.queue[0]
	c.queue = c.queue[1:]
	if next.err != nil {
		return "", next.err
	}
	return next.text, nil
}

// Calls returns a copy of the requests received so far.
func (c *ScriptedClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}
