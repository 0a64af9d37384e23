package slab

import (
	"context"
	"time"
)

// acquireTimeout bounds how long a page commit may wait on a memory
// budget before the commit is treated as failed.
const acquireTimeout = 100 * time.Millisecond

// MemoryAcquirer is an optional budget consulted before committing
// pages and credited back when pages are decommitted or released.
// *resource.Controller satisfies it.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

func acquire(acq MemoryAcquirer, amount int) error {
	if acq == nil || amount <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), acquireTimeout)
	defer cancel()
	return acq.AcquireMemory(ctx, int64(amount))
}

func release(acq MemoryAcquirer, amount int) {
	if acq == nil || amount <= 0 {
		return
	}
	acq.ReleaseMemory(int64(amount))
}
