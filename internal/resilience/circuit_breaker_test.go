package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("upstream failure")

func failing() error    { return errUpstream }
func succeeding() error { return nil }

func TestCircuitBreaker(t *testing.T) {
	t.Run("opens after the failure threshold", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute})

		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Call(failing), errUpstream)
		}
		assert.Equal(t, StateOpen, cb.State())

		err := cb.Call(succeeding)
		var cbErr *CircuitBreakerError
		assert.ErrorAs(t, err, &cbErr)
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3})

		assert.Error(t, cb.Call(failing))
		assert.Error(t, cb.Call(failing))
		assert.NoError(t, cb.Call(succeeding))
		assert.Zero(t, cb.Failures())
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("recovers through half-open", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: 1,
			RecoveryTimeout:  time.Millisecond,
			SuccessThreshold: 2,
		})

		assert.Error(t, cb.Call(failing))
		assert.Equal(t, StateOpen, cb.State())

		time.Sleep(5 * time.Millisecond)

		assert.NoError(t, cb.Call(succeeding))
		assert.Equal(t, StateHalfOpen, cb.State())
		assert.NoError(t, cb.Call(succeeding))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("failure in half-open reopens", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: 1,
			RecoveryTimeout:  time.Millisecond,
			SuccessThreshold: 2,
		})

		assert.Error(t, cb.Call(failing))
		time.Sleep(5 * time.Millisecond)
		assert.Error(t, cb.Call(failing))
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("transition callbacks fire once per transition", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Minute})
		opens := 0
		cb.OnOpen = func() { opens++ }

		assert.Error(t, cb.Call(failing))
		assert.Error(t, cb.Call(failing))
		assert.Equal(t, 1, opens)
	})

	t.Run("reset closes the breaker", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute})
		assert.Error(t, cb.Call(failing))
		assert.Equal(t, StateOpen, cb.State())

		cb.Reset()
		assert.Equal(t, StateClosed, cb.State())
		assert.NoError(t, cb.Call(succeeding))
	})
}

func TestCircuitBreakerRegistry(t *testing.T) {
	registry := NewCircuitBreakerRegistry()

	a := registry.GetOrCreate("sampler_t02", CircuitBreakerConfig{})
	again := registry.GetOrCreate("sampler_t02", CircuitBreakerConfig{})
	assert.Same(t, a, again)

	b := registry.GetOrCreate("sampler_t08", CircuitBreakerConfig{FailureThreshold: 1})
	assert.NotSame(t, a, b)

	got, ok := registry.Get("sampler_t08")
	assert.True(t, ok)
	assert.Same(t, b, got)

	_, ok = registry.Get("missing")
	assert.False(t, ok)

	assert.Error(t, b.Call(failing))
	assert.Equal(t, StateOpen, b.State())
	registry.ResetAll()
	assert.Equal(t, StateClosed, b.State())

	stats := registry.GetStats()
	assert.Contains(t, stats, "sampler_t02")
	assert.Contains(t, stats, "sampler_t08")
}
