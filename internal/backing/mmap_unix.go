//go:build unix || linux || darwin || freebsd || openbsd || netbsd

package backing

import (
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sys/unix"
)

// VMStore is a Store over anonymous mappings. Reservation maps the
// span PROT_NONE so nothing is backed until committed; commit flips a
// page range to read-write; decommit drops the backing with
// MADV_DONTNEED and protects the range again.
type VMStore struct {
	pageSize int
}

// NewVMStore creates a VM store using the OS page size.
func NewVMStore() *VMStore {
	return &VMStore{pageSize: os.Getpagesize()}
}

// PageSize returns the OS page size in bytes.
func (s *VMStore) PageSize() int { return s.pageSize }

// Reserve maps a span of size bytes with no pages committed.
func (s *VMStore) Reserve(size int) (Region, error) {
	if size <= 0 {
		return nil, ErrOutOfBounds
	}
	size = RoundUp(size, s.pageSize)
	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &vmRegion{
		data:      data,
		pageSize:  s.pageSize,
		committed: roaring.New(),
	}, nil
}

type vmRegion struct {
	data      []byte
	pageSize  int
	committed *roaring.Bitmap
	released  bool
}

func (r *vmRegion) Commit(off, n int) error {
	if r.released {
		return ErrReleased
	}
	if err := checkRange(off, n, len(r.data), r.pageSize); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if err := unix.Mprotect(r.data[off:off+n], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return err
	}
	r.committed.AddRange(uint64(off/r.pageSize), uint64((off+n)/r.pageSize))
	return nil
}

func (r *vmRegion) Decommit(off, n int) error {
	if r.released {
		return ErrReleased
	}
	if err := checkRange(off, n, len(r.data), r.pageSize); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if err := unix.Madvise(r.data[off:off+n], unix.MADV_DONTNEED); err != nil {
		return err
	}
	if err := unix.Mprotect(r.data[off:off+n], unix.PROT_NONE); err != nil {
		return err
	}
	r.committed.RemoveRange(uint64(off/r.pageSize), uint64((off+n)/r.pageSize))
	return nil
}

func (r *vmRegion) AllocatedBytes(off, n int) int {
	if r.released {
		return 0
	}
	return committedBytes(r.committed, off, n, len(r.data), r.pageSize)
}

func (r *vmRegion) Bytes() []byte {
	if r.released {
		return nil
	}
	return r.data
}

func (r *vmRegion) Size() int { return len(r.data) }

func (r *vmRegion) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	data := r.data
	r.data = nil
	r.committed.Clear()
	return unix.Munmap(data)
}
