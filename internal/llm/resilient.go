package llm

import (
	"context"

	"github.com/venturelens/pitchmeter/internal/resilience"
)

// CallRecorder receives per-invocation accounting. *monitoring.Metrics
// satisfies it.
type CallRecorder interface {
	RecordModelCall(sampler string, success bool)
}

// ResilientClient short-circuits invocations while the upstream is failing
// persistently. Combined with BoundedClient it forms the full transport
// wrapper: rate limit, deadline, breaker.
type ResilientClient struct {
	inner    Client
	breaker  *resilience.CircuitBreaker
	recorder CallRecorder
}

// NewResilientClient wraps inner with the given breaker. recorder may be nil.
func NewResilientClient(inner Client, breaker *resilience.CircuitBreaker, recorder CallRecorder) *ResilientClient {
	return &ResilientClient{inner: inner, breaker: breaker, recorder: recorder}
}

func (c *ResilientClient) Name() string { return c.inner.Name() }

func (c *ResilientClient) Invoke(ctx context.Context, prompt string) (Response, error) {
	var resp Response
	err := c.breaker.Call(func() error {
		var inner error
		resp, inner = c.inner.Invoke(ctx, prompt)
		return inner
	})
	if c.recorder != nil {
		c.recorder.RecordModelCall(c.inner.Name(), err == nil)
	}
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}
