package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paperqa/internal/contextutil"
)

// Chain tries generators in order and returns the first successful completion.
type Chain struct {
	providers []Generator
	timeout   time.Duration
	onFailure func(provider string)
}

// NewChain creates a fallback chain. timeout bounds each attempt; zero means
// attempts only end with the caller's context.
func NewChain(timeout time.Duration, providers ...Generator) *Chain {
	return &Chain{providers: providers, timeout: timeout}
}

// OnFailure registers a hook called with the provider name after each failed attempt.
func (c *Chain) OnFailure(fn func(provider string)) {
	c.onFailure = fn
}

// Len returns the number of providers.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Providers returns the provider names in order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate runs the providers in order and returns the first completion and the
// name of the provider that produced it. When every provider fails it returns a
// *GenerationError carrying the last failure.
func (c *Chain) Generate(ctx context.Context, prompt string, params GenerateParams) (string, string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(c.providers) == 0 {
		return "", "", &GenerationError{Err: errors.New("no generation providers configured")}
	}

	var lastErr *GenerationError
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = &GenerationError{Provider: p.Name(), Err: err}
			}
			break
		}

		text, err := c.attempt(ctx, p, prompt, params)
		if err == nil {
			logger.DebugContext(ctx, "generation succeeded", "provider", p.Name())
			return text, p.Name(), nil
		}

		logger.WarnContext(ctx, "generation provider failed", "provider", p.Name(), "error", err)
		if c.onFailure != nil {
			c.onFailure(p.Name())
		}
		lastErr = &GenerationError{Provider: p.Name(), Err: err}
	}

	return "", "", lastErr
}

func (c *Chain) attempt(ctx context.Context, p Generator, prompt string, params GenerateParams) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := p.Generate(ctx, prompt, params)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		return "", err
	}
	return text, nil
}
