package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	// Over the limit: blocks until timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.AcquireMemory(ctx, 50)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(context.Background(), 100))
}

func TestControllerUnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(context.Background(), 1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
}

func TestControllerNilSafe(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(context.Background(), 10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireLoad(context.Background()))
	c.ReleaseLoad()
	require.NoError(t, c.WaitLoadBytes(context.Background(), 10))
}

func TestControllerLoadSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 2})

	require.NoError(t, c.AcquireLoad(context.Background()))
	require.NoError(t, c.AcquireLoad(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireLoad(ctx), context.DeadlineExceeded)

	c.ReleaseLoad()
	require.NoError(t, c.AcquireLoad(context.Background()))
}

func TestControllerLoadRateChunks(t *testing.T) {
	c := NewController(Config{LoadLimitBytesPerSec: 1 << 20})

	// Larger than the burst; must be chunked, not rejected.
	require.NoError(t, c.WaitLoadBytes(context.Background(), (1<<20)+1))
}
