package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for arenas sharing this controller.
type Config struct {
	// MemoryLimitBytes is the hard limit for committed pages across
	// all pools using this controller. If 0, no hard limit is
	// enforced (only tracking).
	MemoryLimitBytes int64

	// CommitLimitBytesPerSec throttles how fast pages may be
	// committed, smoothing out fault storms when many cold slots are
	// touched at once. If 0, unlimited.
	CommitLimitBytesPerSec int64
}

// Controller tracks and limits committed memory. A single controller
// may be shared by several arenas to enforce a global budget.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	commitLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.CommitLimitBytesPerSec > 0 {
		c.commitLimiter = rate.NewLimiter(rate.Limit(cfg.CommitLimitBytesPerSec), int(cfg.CommitLimitBytesPerSec))
	}

	return c
}

// AcquireMemory reserves budget for bytes of pages about to be
// committed. With a hard limit configured it blocks until budget is
// available or ctx is canceled; the commit rate limit, if any, is
// applied first.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.commitLimiter != nil {
		if err := c.waitCommit(ctx, bytes); err != nil {
			return err
		}
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves budget without blocking. Returns false if
// the limit would be exceeded. The commit rate limit is not consulted.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns budget for bytes of decommitted or released
// pages.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved budget in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// waitCommit charges bytes against the commit rate limiter. Charges
// larger than the burst are split so WaitN is never asked for more
// than the limiter can ever grant.
func (c *Controller) waitCommit(ctx context.Context, bytes int64) error {
	burst := int64(c.commitLimiter.Burst())
	for bytes > 0 {
		n := bytes
		if n > burst {
			n = burst
		}
		if err := c.commitLimiter.WaitN(ctx, int(n)); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
