package slabarena

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/slabarena/internal/backing"
	"github.com/hupe1980/slabarena/internal/slab"
)

// Addr is an address inside an arena's data span.
type Addr uintptr

// Arena is a fixed-capacity slab allocator over two demand-paged
// regions: the data span holding the slots and the control span
// holding free-list nodes. Not safe for concurrent use; see the
// package documentation.
type Arena struct {
	name       string
	objectSize int
	count      int

	data *slab.DataPool
	ctl  *slab.ControlPool
	free *slab.FreeList

	// freeSet mirrors the free list as a membership set so Free can
	// reject double frees in O(1) and Stats/invariant checks stay
	// cheap.
	freeSet *roaring.Bitmap

	// hwm is the number of slots ever bump-allocated. Only grows.
	hwm int

	logger  *Logger
	metrics MetricsCollector

	allocs uint64
	frees  uint64
	reuses uint64

	closed bool
}

// Stats is a point-in-time snapshot of an arena.
type Stats struct {
	Name          string
	ObjectSize    int
	SlotCount     int
	HighWaterMark int // slots ever bump-allocated
	Allocated     int // slots currently handed out
	Free          int // slots on the free list

	DataCommittedBytes    int
	ControlCommittedBytes int

	TotalAllocs uint64
	TotalFrees  uint64
	Reused      uint64 // allocations served from the free list
}

// New creates an arena of count slots of objectSize bytes each. name
// is an optional label used in logs and stats; it may be empty.
//
// No pages are committed in either region until slots are touched.
func New(name string, objectSize, count int, opts ...Option) (*Arena, error) {
	o := &options{
		store:   backing.Default(),
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(o)
	}

	pageSize := o.store.PageSize()
	if objectSize <= 0 || objectSize > pageSize {
		return nil, &ErrInvalidObjectSize{ObjectSize: objectSize, PageSize: pageSize}
	}
	if count <= 0 {
		return nil, &ErrInvalidCount{Count: count}
	}

	var acq slab.MemoryAcquirer
	if o.controller != nil {
		acq = o.controller
	}

	data, err := slab.NewDataPool(o.store, objectSize, count, acq)
	if err != nil {
		return nil, fmt.Errorf("%w: data region: %w", ErrNoMemory, err)
	}
	ctl, err := slab.NewControlPool(o.store, count, acq)
	if err != nil {
		// Do not leak the half-built arena.
		_ = data.Release()
		return nil, fmt.Errorf("%w: control region: %w", ErrNoMemory, err)
	}

	a := &Arena{
		name:       name,
		objectSize: objectSize,
		count:      count,
		data:       data,
		ctl:        ctl,
		free:       slab.NewFreeList(ctl),
		freeSet:    roaring.New(),
		logger:     o.logger.WithArena(name),
		metrics:    o.metrics,
	}

	a.logger.Info("arena initialized",
		"object_size", objectSize,
		"slot_count", count,
		"data_reserved", data.Size(),
		"control_reserved", ctl.Size(),
	)
	return a, nil
}

// Alloc hands out one slot. The second return value is false when all
// count slots are in use; exhaustion is a normal outcome and repeated
// calls keep returning false until a Free.
//
// The slot's content is NOT zeroed: a fresh slot holds arbitrary bytes
// and a reused slot holds whatever its previous owner wrote.
func (a *Arena) Alloc() (Addr, bool) {
	a.ensureOpen()

	// Reuse path: pop the most recently freed slot. The node just
	// left the live set, so the pop also runs the control-pool
	// hysteresis sweep.
	i, decommitted, ok, err := a.free.Pop()
	if err != nil {
		panic(fmt.Sprintf("slabarena: %v", err))
	}
	if ok {
		a.freeSet.Remove(uint32(i))
		if decommitted > 0 {
			a.logger.LogDecommit(PoolControl, decommitted, a.ctl.CommittedBytes())
			a.metrics.RecordDecommit(PoolControl, decommitted)
		}
		a.allocs++
		a.reuses++
		a.metrics.RecordAlloc(true)
		return a.slotAddr(i), true
	}

	// Bump path.
	if a.hwm < a.count {
		i := a.hwm
		committed, err := a.data.EnsureSlot(i)
		if err != nil {
			// A page that cannot be committed when needed is an
			// unrecoverable allocator failure; the caller cannot
			// retry at a different address.
			panic(fmt.Sprintf("slabarena: data page commit failed: %v", err))
		}
		a.hwm++
		if committed > 0 {
			a.logger.LogCommit(PoolData, committed, a.data.CommittedBytes())
			a.metrics.RecordCommit(PoolData, committed)
		}
		a.allocs++
		a.metrics.RecordAlloc(false)
		return a.slotAddr(i), true
	}

	return 0, false
}

// Free returns a slot to the arena. addr must be a live address
// previously returned by Alloc; any other input (a foreign address, a
// misaligned address, a double free) panics. The slot's content is
// left untouched.
func (a *Arena) Free(addr Addr) {
	a.ensureOpen()

	i := a.mustIndex(addr)
	if a.freeSet.Contains(uint32(i)) {
		panic(fmt.Sprintf("slabarena: double free of slot %d", i))
	}

	committed, err := a.free.Push(i)
	if err != nil {
		panic(fmt.Sprintf("slabarena: control page commit failed: %v", err))
	}
	a.freeSet.Add(uint32(i))
	if committed > 0 {
		a.logger.LogCommit(PoolControl, committed, a.ctl.CommittedBytes())
		a.metrics.RecordCommit(PoolControl, committed)
	}
	a.frees++
	a.metrics.RecordFree()
}

// InRange reports whether addr falls inside the ever-touched part of
// the data span: Start() <= addr < Start() + hwm*objectSize. A freed
// slot stays in range because the bump pointer never retreats; before
// the first Alloc nothing is in range.
func (a *Arena) InRange(addr Addr) bool {
	base := Addr(a.data.Base())
	return addr >= base && addr < base+Addr(a.hwm*a.objectSize)
}

// Start returns the first byte address of the data span.
func (a *Arena) Start() Addr {
	return Addr(a.data.Base())
}

// End returns one past the last byte of the reserved data span.
// End-Start covers the full page-rounded capacity, touched or not.
func (a *Arena) End() Addr {
	return Addr(a.data.Base()) + Addr(a.data.Size())
}

// Bytes returns the content view of the slot at addr, a slice of
// exactly ObjectSize bytes. The arena itself never reads or writes it.
// Panics if addr is not an in-range slot address.
func (a *Arena) Bytes(addr Addr) []byte {
	a.ensureOpen()
	return a.data.SlotBytes(a.mustIndex(addr))
}

// ObjectSize returns the slot size in bytes.
func (a *Arena) ObjectSize() int { return a.objectSize }

// Count returns the slot capacity.
func (a *Arena) Count() int { return a.count }

// Name returns the arena's label, possibly empty.
func (a *Arena) Name() string { return a.name }

// Stats returns a snapshot of the arena's counters and committed
// footprints.
func (a *Arena) Stats() Stats {
	return Stats{
		Name:                  a.name,
		ObjectSize:            a.objectSize,
		SlotCount:             a.count,
		HighWaterMark:         a.hwm,
		Allocated:             a.hwm - a.free.Len(),
		Free:                  a.free.Len(),
		DataCommittedBytes:    a.data.CommittedBytes(),
		ControlCommittedBytes: a.ctl.CommittedBytes(),
		TotalAllocs:           a.allocs,
		TotalFrees:            a.frees,
		Reused:                a.reuses,
	}
}

func (a *Arena) String() string {
	s := a.Stats()
	return fmt.Sprintf(
		"Arena{name: %q, slots: %d/%d, hwm: %d, data: %d B committed, control: %d B committed, allocs: %d, frees: %d}",
		s.Name, s.Allocated, s.SlotCount, s.HighWaterMark,
		s.DataCommittedBytes, s.ControlCommittedBytes,
		s.TotalAllocs, s.TotalFrees,
	)
}

// Close releases both regions unconditionally. Every address the arena
// ever handed out is invalid afterwards, freed or not; reconciling
// outstanding allocations is the caller's business. Idempotent.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	err := a.data.Release()
	if cerr := a.ctl.Release(); cerr != nil && err == nil {
		err = cerr
	}
	a.freeSet.Clear()

	a.logger.Info("arena closed",
		"total_allocs", a.allocs,
		"total_frees", a.frees,
	)
	return err
}

// slotAddr converts a slot index into its address.
func (a *Arena) slotAddr(i int) Addr {
	return Addr(a.data.Base()) + Addr(i*a.objectSize)
}

// mustIndex converts addr back into a slot index, panicking on
// anything that cannot be a live slot address.
func (a *Arena) mustIndex(addr Addr) int {
	base := Addr(a.data.Base())
	if addr < base || addr >= base+Addr(a.hwm*a.objectSize) {
		panic(fmt.Sprintf("slabarena: address %#x is not an allocated slot of arena %q", uintptr(addr), a.name))
	}
	off := int(addr - base)
	if off%a.objectSize != 0 {
		panic(fmt.Sprintf("slabarena: address %#x is not slot-aligned", uintptr(addr)))
	}
	return off / a.objectSize
}

func (a *Arena) ensureOpen() {
	if a.closed {
		panic("slabarena: use after Close()")
	}
}
