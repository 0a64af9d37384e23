package backing

import (
	"os"

	"github.com/RoaringBitmap/roaring/v2"
)

// HeapStore is a Store over ordinary Go heap memory. Reservation
// allocates the whole span eagerly; Commit and Decommit only move
// pages in and out of a committed set. Decommitted pages are zeroed,
// which is the closest portable analogue to losing their backing.
type HeapStore struct {
	pageSize int
}

// NewHeapStore creates a heap store with the given page size.
// If pageSize <= 0, the OS page size is used.
func NewHeapStore(pageSize int) *HeapStore {
	if pageSize <= 0 {
		pageSize = os.Getpagesize()
	}
	return &HeapStore{pageSize: pageSize}
}

// PageSize returns the commit granularity in bytes.
func (s *HeapStore) PageSize() int { return s.pageSize }

// Reserve reserves a span of size bytes.
func (s *HeapStore) Reserve(size int) (Region, error) {
	if size <= 0 {
		return nil, ErrOutOfBounds
	}
	size = RoundUp(size, s.pageSize)
	return &heapRegion{
		buf:       make([]byte, size),
		pageSize:  s.pageSize,
		committed: roaring.New(),
	}, nil
}

type heapRegion struct {
	buf       []byte
	pageSize  int
	committed *roaring.Bitmap // page indices with backing attached
	released  bool
}

func (r *heapRegion) Commit(off, n int) error {
	if r.released {
		return ErrReleased
	}
	if err := checkRange(off, n, len(r.buf), r.pageSize); err != nil {
		return err
	}
	first := uint64(off / r.pageSize)
	last := uint64((off + n) / r.pageSize)
	r.committed.AddRange(first, last)
	return nil
}

func (r *heapRegion) Decommit(off, n int) error {
	if r.released {
		return ErrReleased
	}
	if err := checkRange(off, n, len(r.buf), r.pageSize); err != nil {
		return err
	}
	first := uint64(off / r.pageSize)
	last := uint64((off + n) / r.pageSize)
	r.committed.RemoveRange(first, last)
	// Losing the backing loses the content.
	clear(r.buf[off : off+n])
	return nil
}

func (r *heapRegion) AllocatedBytes(off, n int) int {
	if r.released {
		return 0
	}
	return committedBytes(r.committed, off, n, len(r.buf), r.pageSize)
}

func (r *heapRegion) Bytes() []byte {
	if r.released {
		return nil
	}
	return r.buf
}

func (r *heapRegion) Size() int { return len(r.buf) }

func (r *heapRegion) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	r.buf = nil
	r.committed.Clear()
	return nil
}
