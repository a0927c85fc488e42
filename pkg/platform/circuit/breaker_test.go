package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("audit-sink")

	assert.Equal(t, "audit-sink", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}

func TestBreakerOpensOnConsecutiveFailures(t *testing.T) {
	b := New("audit-sink", WithFailureThreshold(3))

	for range 2 {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.Equal(t, StateChange{}, change)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.Equal(t, StateChange{Opened: true}, change)
	assert.True(t, b.IsOpen())

	// Only the tripping call reports the transition.
	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.Equal(t, StateChange{}, change)
}

func TestBreakerClosesAfterConsecutiveSuccesses(t *testing.T) {
	b := New("audit-sink", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	require.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.Equal(t, StateChange{}, change)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.Equal(t, StateChange{Closed: true}, change)
	assert.False(t, b.IsOpen())
}

func TestBreakerCountsOnlyConsecutiveOutcomes(t *testing.T) {
	t.Run("a success voids failure progress", func(t *testing.T) {
		b := New("audit-sink", WithFailureThreshold(2))

		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		assert.False(t, b.IsOpen())

		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("a failure voids close progress", func(t *testing.T) {
		b := New("audit-sink", WithFailureThreshold(1), WithSuccessThreshold(2))

		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		require.True(t, b.IsOpen())

		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestBreakerResetForcesClosed(t *testing.T) {
	b := New("audit-sink", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())

	// Counting starts over from zero.
	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.Equal(t, StateChange{}, change)
}

func TestBreakerDefaults(t *testing.T) {
	b := New("audit-sink")

	for range 4 {
		useFallback, _ := b.RecordFailure()
		require.False(t, useFallback)
	}
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.Equal(t, StateChange{Opened: true}, change)

	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}
