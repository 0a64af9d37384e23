package backing

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
)

var (
	// ErrReleased is returned when operating on a released region.
	ErrReleased = errors.New("backing: region is released")
	// ErrOutOfBounds is returned when a range falls outside the region.
	ErrOutOfBounds = errors.New("backing: out of bounds")
	// ErrMisaligned is returned when a commit/decommit range is not page-aligned.
	ErrMisaligned = errors.New("backing: range is not page-aligned")
)

// Store reserves virtual spans whose physical backing is attached and
// detached page by page.
type Store interface {
	// Reserve reserves a span of size bytes with no pages committed.
	// size is rounded up to the store's page granularity.
	Reserve(size int) (Region, error)

	// PageSize returns the commit granularity in bytes.
	PageSize() int
}

// Region is a reserved span. Commit and Decommit take page-aligned
// offset/length pairs; touching uncommitted bytes is a caller bug
// (the VM-backed store faults, the heap store returns stale zeroes).
type Region interface {
	// Commit attaches physical backing to [off, off+n).
	Commit(off, n int) error

	// Decommit detaches physical backing from [off, off+n).
	// The content of decommitted pages is lost.
	Decommit(off, n int) error

	// AllocatedBytes reports how many bytes of [off, off+n) are
	// currently committed. Introspection surface, used by Stats
	// and the test suite.
	AllocatedBytes(off, n int) int

	// Bytes returns the full reserved span. The slice stays valid
	// until Release; only committed sub-ranges may be touched.
	Bytes() []byte

	// Size returns the reserved span length in bytes.
	Size() int

	// Release unmaps the whole span. Idempotent.
	Release() error
}

// RoundUp rounds n up to the next multiple of page.
func RoundUp(n, page int) int {
	return (n + page - 1) / page * page
}

func checkRange(off, n, size, page int) error {
	if off < 0 || n < 0 || off+n > size {
		return ErrOutOfBounds
	}
	if off%page != 0 || n%page != 0 {
		return ErrMisaligned
	}
	return nil
}

// committedBytes counts committed bytes of [off, off+n) given the
// committed page-index set.
func committedBytes(committed *roaring.Bitmap, off, n, size, page int) int {
	if n <= 0 || committed.IsEmpty() {
		return 0
	}
	end := off + n
	if end > size {
		end = size
	}
	if off < 0 || off >= end {
		return 0
	}
	first := off / page
	last := (end - 1) / page // inclusive
	pages := int(committed.Rank(uint32(last)))
	if first > 0 {
		pages -= int(committed.Rank(uint32(first - 1)))
	}
	return pages * page
}
