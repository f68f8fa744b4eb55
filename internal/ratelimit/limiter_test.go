package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiter_BurstThenDeny(t *testing.T) {
	cl := NewClientLimiter(0.001, 2)

	assert.True(t, cl.Allow("alice"))
	assert.True(t, cl.Allow("alice"))
	assert.False(t, cl.Allow("alice"))

	// Each client has its own bucket.
	assert.True(t, cl.Allow("bob"))
}

func TestClientLimiter_WaitCancelled(t *testing.T) {
	cl := NewClientLimiter(0.001, 1)
	require.NoError(t, cl.Wait(context.Background(), "alice"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cl.Wait(ctx, "alice")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "alice")
}

func TestServiceLimiter_Wait(t *testing.T) {
	sl := NewServiceLimiter(ServiceRates{CloudWatch: 100, STS: 100})

	// Should not block at high rate.
	err := sl.Wait(context.Background(), "CloudWatch")
	require.NoError(t, err)
}

func TestServiceLimiter_UnknownService(t *testing.T) {
	sl := NewServiceLimiter(DefaultServiceRates())

	// Unknown service should pass through.
	err := sl.Wait(context.Background(), "UnknownService")
	assert.NoError(t, err)
}

func TestServiceLimiter_CancelledContext(t *testing.T) {
	// Create a very restrictive limiter.
	sl := NewServiceLimiter(ServiceRates{CloudWatch: 0.001})

	// Consume the burst.
	_ = sl.Wait(context.Background(), "CloudWatch")

	// Next call with cancelled context should error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sl.Wait(ctx, "CloudWatch")
	assert.Error(t, err)
}
