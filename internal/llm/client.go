// Package llm wraps the external model collaborator behind a minimal
// text-in/text-out contract. The analysis core performs no retries itself;
// every invocation is time-bounded and rate-limited here, at the transport
// layer.
package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Response is the model output the core consumes.
type Response struct {
	Content string `json:"content"`
}

// Client is the inference collaborator contract. Implementations may fail or
// time out; callers degrade to fallback results instead of propagating.
type Client interface {
	// Invoke sends one prompt and returns the raw completion text.
	Invoke(ctx context.Context, prompt string) (Response, error)
	// Name identifies the sampler for consensus bookkeeping.
	Name() string
}

// BoundedClient enforces a shared rate limit and per-call timeout in front of
// an inner client.
type BoundedClient struct {
	inner   Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewBoundedClient wraps inner with the given limiter and timeout. A nil
// limiter disables rate limiting; a zero timeout disables the deadline.
func NewBoundedClient(inner Client, limiter *rate.Limiter, timeout time.Duration) *BoundedClient {
	return &BoundedClient{inner: inner, limiter: limiter, timeout: timeout}
}

func (c *BoundedClient) Name() string { return c.inner.Name() }

func (c *BoundedClient) Invoke(ctx context.Context, prompt string) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, err
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.inner.Invoke(ctx, prompt)
}
