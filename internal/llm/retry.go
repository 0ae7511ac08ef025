package llm

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"subtext/internal/models"
)

// RetryConfig controls the backoff schedule of the retry decorator.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig mirrors the runner's default retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// WithRetry wraps a client with bounded exponential backoff on transport
// errors and a cap on in-flight requests. Non-transport errors are returned
// immediately.
func WithRetry(inner Client, cfg RetryConfig, maxInFlight int64, logger *zap.Logger) Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &retryClient{
		inner:  inner,
		cfg:    cfg,
		sem:    semaphore.NewWeighted(maxInFlight),
		logger: logger,
	}
}

type retryClient struct {
	inner  Client
	cfg    RetryConfig
	sem    *semaphore.Weighted
	logger *zap.Logger
}

func (c *retryClient) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg models.SampleConfig) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt); err != nil {
				return "", err
			}
		}

		text, err := c.inner.Complete(ctx, systemPrompt, userPrompt, cfg)
		if err == nil {
			return text, nil
		}
		if !IsTransport(err) {
			return "", err
		}

		lastErr = err
		c.logger.Warn("completion attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.cfg.MaxAttempts),
			zap.Error(err))
	}

	return "", lastErr
}

// sleep waits out the backoff delay for the given attempt, honoring context
// cancellation. The delay grows geometrically with added jitter and is capped
// at MaxDelay.
func (c *retryClient) sleep(ctx context.Context, attempt int) error {
	delay := c.cfg.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * c.cfg.Multiplier)
	}
	if delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}
	delay += time.Duration(rand.Int63n(int64(delay) + 1))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
