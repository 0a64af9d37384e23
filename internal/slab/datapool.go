package slab

import (
	"unsafe"

	"github.com/hupe1980/slabarena/internal/backing"
)

// DataPool is the slot region. Pages commit lazily as the bump pointer
// reaches them and stay committed until Release.
type DataPool struct {
	region     backing.Region
	objectSize int
	count      int
	pageSize   int

	// committedEnd is the byte offset up to which pages are
	// committed. Monotone; the pool never decommits.
	committedEnd int

	acquirer MemoryAcquirer
}

// NewDataPool reserves a region sized for count objects of objectSize
// bytes each, with no pages committed.
func NewDataPool(store backing.Store, objectSize, count int, acq MemoryAcquirer) (*DataPool, error) {
	region, err := store.Reserve(objectSize * count)
	if err != nil {
		return nil, err
	}
	return &DataPool{
		region:     region,
		objectSize: objectSize,
		count:      count,
		pageSize:   store.PageSize(),
		acquirer:   acq,
	}, nil
}

// EnsureSlot commits any not-yet-committed pages covering slot i.
// It returns the number of bytes newly committed.
func (p *DataPool) EnsureSlot(i int) (int, error) {
	need := backing.RoundUp((i+1)*p.objectSize, p.pageSize)
	if need <= p.committedEnd {
		return 0, nil
	}
	n := need - p.committedEnd
	if err := acquire(p.acquirer, n); err != nil {
		return 0, err
	}
	if err := p.region.Commit(p.committedEnd, n); err != nil {
		release(p.acquirer, n)
		return 0, err
	}
	p.committedEnd = need
	return n, nil
}

// SlotBytes returns the content view of slot i. The slot's pages must
// be committed.
func (p *DataPool) SlotBytes(i int) []byte {
	off := i * p.objectSize
	return p.region.Bytes()[off : off+p.objectSize : off+p.objectSize]
}

// Base returns the address of the first slot.
func (p *DataPool) Base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p.region.Bytes())))
}

// Size returns the reserved region size in bytes.
func (p *DataPool) Size() int { return p.region.Size() }

// ObjectSize returns the slot size in bytes.
func (p *DataPool) ObjectSize() int { return p.objectSize }

// Count returns the slot capacity.
func (p *DataPool) Count() int { return p.count }

// CommittedBytes reports the committed footprint of the whole region.
func (p *DataPool) CommittedBytes() int {
	return p.region.AllocatedBytes(0, p.region.Size())
}

// Release unmaps the region. All slot addresses become invalid.
func (p *DataPool) Release() error {
	release(p.acquirer, p.committedEnd)
	p.committedEnd = 0
	return p.region.Release()
}
