//go:build !(unix || linux || darwin || freebsd || openbsd || netbsd)

package backing

// Default returns the store used when none is configured. Without a
// usable mmap surface the heap store stands in; the commit/decommit
// bookkeeping still runs, it just stops saving physical memory.
func Default() Store {
	return NewHeapStore(0)
}
