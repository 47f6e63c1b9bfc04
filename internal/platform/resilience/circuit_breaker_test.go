package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	breaker := NewCircuitBreaker(2, time.Minute, 1)

	require.NoError(t, breaker.Allow())
	breaker.RecordFailure()
	require.Equal(t, CircuitStateClosed, breaker.State())

	breaker.RecordFailure()
	require.Equal(t, CircuitStateOpen, breaker.State())
	require.ErrorIs(t, breaker.Allow(), ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	breaker := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Now()
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	require.Equal(t, CircuitStateOpen, breaker.State())

	current = current.Add(20 * time.Millisecond)
	require.NoError(t, breaker.Allow())
	require.Equal(t, CircuitStateHalfOpen, breaker.State())

	breaker.RecordSuccess()
	require.Equal(t, CircuitStateClosed, breaker.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Now()
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	current = current.Add(20 * time.Millisecond)
	require.NoError(t, breaker.Allow())

	breaker.RecordFailure()
	require.Equal(t, CircuitStateOpen, breaker.State())
}
