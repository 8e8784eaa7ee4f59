package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote boom")

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(clock *manualClock) *Breaker {
	return NewBreakerWithClock("peer", Config{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		CallTimeout:      time.Second,
	}, nil, clock.Now)
}

func failingCall(ctx context.Context) error { return errRemote }

func succeedingCall(ctx context.Context) error { return nil }

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	clock := newManualClock()
	breaker := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		err := breaker.Execute(context.Background(), failingCall)
		require.ErrorIs(t, err, errRemote)
	}
	assert.Equal(t, StateOpen, breaker.State())

	// Short-circuited immediately, independent of the dependency.
	called := false
	err := breaker.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	clock := newManualClock()
	breaker := newTestBreaker(clock)

	require.ErrorIs(t, breaker.Execute(context.Background(), failingCall), errRemote)
	require.ErrorIs(t, breaker.Execute(context.Background(), failingCall), errRemote)
	require.NoError(t, breaker.Execute(context.Background(), succeedingCall))
	require.ErrorIs(t, breaker.Execute(context.Background(), failingCall), errRemote)
	require.ErrorIs(t, breaker.Execute(context.Background(), failingCall), errRemote)

	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerHalfOpenTrialClosesOnSuccess(t *testing.T) {
	clock := newManualClock()
	breaker := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(context.Background(), failingCall)
	}
	require.Equal(t, StateOpen, breaker.State())

	clock.Advance(31 * time.Second)
	require.NoError(t, breaker.Execute(context.Background(), succeedingCall))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerHalfOpenTrialFailureReopens(t *testing.T) {
	clock := newManualClock()
	breaker := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(context.Background(), failingCall)
	}
	clock.Advance(31 * time.Second)
	require.ErrorIs(t, breaker.Execute(context.Background(), failingCall), errRemote)
	assert.Equal(t, StateOpen, breaker.State())

	// Cooldown restarted: still short-circuited until it elapses again.
	clock.Advance(10 * time.Second)
	assert.ErrorIs(t, breaker.Execute(context.Background(), succeedingCall), ErrCircuitOpen)

	clock.Advance(21 * time.Second)
	require.NoError(t, breaker.Execute(context.Background(), succeedingCall))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerAllowsExactlyOneHalfOpenProbe(t *testing.T) {
	clock := newManualClock()
	breaker := newTestBreaker(clock)

	for i := 0; i < 3; i++ {
		_ = breaker.Execute(context.Background(), failingCall)
	}
	clock.Advance(31 * time.Second)

	inProbe := make(chan struct{})
	finish := make(chan struct{})
	go func() {
		_ = breaker.Execute(context.Background(), func(ctx context.Context) error {
			close(inProbe)
			<-finish
			return nil
		})
	}()

	<-inProbe
	err := breaker.Execute(context.Background(), succeedingCall)
	assert.ErrorIs(t, err, ErrProbeInFlight)
	close(finish)
}

func TestBreakerTimeoutCountsAsFailure(t *testing.T) {
	clock := newManualClock()
	breaker := NewBreakerWithClock("peer", Config{
		FailureThreshold: 1,
		Cooldown:         30 * time.Second,
		CallTimeout:      10 * time.Millisecond,
	}, nil, clock.Now)

	err := breaker.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.Equal(t, StateOpen, breaker.State())
}
