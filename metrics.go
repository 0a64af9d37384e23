package slabarena

// Pool labels reported to MetricsCollector.
const (
	PoolData    = "data"
	PoolControl = "control"
)

// MetricsCollector receives allocator events. Implement this to hook
// the arena into your metrics system (Prometheus, StatsD, etc.).
//
// Methods are called synchronously from Alloc/Free under the caller's
// serialization; implementations should be fast and must not call back
// into the arena.
type MetricsCollector interface {
	// RecordAlloc is called after each successful allocation.
	// reused is true when the slot came off the free list.
	RecordAlloc(reused bool)

	// RecordFree is called after each Free.
	RecordFree()

	// RecordCommit is called when pages are committed in the given
	// pool.
	RecordCommit(pool string, bytes int)

	// RecordDecommit is called when the control pool's hysteresis
	// sweep releases pages.
	RecordDecommit(pool string, bytes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(bool)           {}
func (NoopMetricsCollector) RecordFree()                {}
func (NoopMetricsCollector) RecordCommit(string, int)   {}
func (NoopMetricsCollector) RecordDecommit(string, int) {}
