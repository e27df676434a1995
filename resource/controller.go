// Package resource tracks the memory the engine keeps resident for the
// lifetime of a run. The corpus is by far the largest allocation; the
// controller makes its footprint explicit and lets operators cap it instead
// of discovering the limit through the OOM killer.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, usage is tracked but not limited.
	MemoryLimitBytes int64

	// MaxConcurrentLoads bounds how many shard loads run at once.
	// If 0, defaults to 1.
	MaxConcurrentLoads int64

	// LoadLimitBytesPerSec throttles shard ingest throughput, useful when
	// shards are pulled from shared object storage. If 0, unlimited.
	LoadLimitBytesPerSec int64
}

// Controller manages memory accounting and load concurrency.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	loadSem *semaphore.Weighted

	loadLimiter *rate.Limiter
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentLoads <= 0 {
		cfg.MaxConcurrentLoads = 1
	}

	c := &Controller{
		cfg:     cfg,
		loadSem: semaphore.NewWeighted(cfg.MaxConcurrentLoads),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.LoadLimitBytesPerSec > 0 {
		c.loadLimiter = rate.NewLimiter(rate.Limit(cfg.LoadLimitBytesPerSec), int(cfg.LoadLimitBytesPerSec))
	}

	return c
}

// AcquireMemory reserves bytes of managed memory, blocking until the
// reservation fits under the limit or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns a reservation made by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireLoad claims a shard-load slot.
func (c *Controller) AcquireLoad(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.loadSem.Acquire(ctx, 1)
}

// ReleaseLoad returns a shard-load slot.
func (c *Controller) ReleaseLoad() {
	if c == nil {
		return
	}
	c.loadSem.Release(1)
}

// WaitLoadBytes blocks until the load rate limiter admits n more bytes.
// Requests larger than the burst are admitted in burst-sized chunks.
func (c *Controller) WaitLoadBytes(ctx context.Context, n int) error {
	if c == nil || c.loadLimiter == nil || n <= 0 {
		return nil
	}

	burst := c.loadLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.loadLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
