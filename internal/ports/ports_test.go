package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker is a HealthChecker with a fixed outcome.
type stubChecker struct {
	name string
	err  error
	wait time.Duration
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(ctx context.Context) error {
	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func TestHealthRegistry_RejectsDuplicates(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "db"}))

	err := registry.Register(&stubChecker{name: "db"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateChecker)
}

func TestHealthRegistry_CheckAll_Empty(t *testing.T) {
	registry := NewHealthRegistry()

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestHealthRegistry_CheckAll_AggregatesResults(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "db"}))
	require.NoError(t, registry.Register(&stubChecker{name: "flaky", err: errors.New("connection refused")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	require.Len(t, result.Checks, 2)
	assert.Equal(t, HealthStatusHealthy, result.Checks["db"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["flaky"].Status)
	assert.Equal(t, "connection refused", result.Checks["flaky"].Message)
}

func TestHealthRegistry_CheckAll_RunsConcurrently(t *testing.T) {
	registry := NewHealthRegistry()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, registry.Register(&stubChecker{name: name, wait: 50 * time.Millisecond}))
	}

	start := time.Now()
	registry.CheckAll(context.Background())

	// Three 50ms checks running sequentially would take 150ms.
	assert.Less(t, time.Since(start), 140*time.Millisecond)
}

// stubPinger implements Pinger.
type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func TestStoreChecker(t *testing.T) {
	healthy := NewStoreChecker(&stubPinger{})
	assert.Equal(t, "seinfeld-db", healthy.Name())
	assert.NoError(t, healthy.Check(context.Background()))

	down := NewStoreChecker(&stubPinger{err: errors.New("not connected")})
	assert.Error(t, down.Check(context.Background()))
}
