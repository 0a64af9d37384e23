// Package slabarena provides a fixed-capacity slab arena whose
// physical memory is demand-paged.
//
// An arena hands out equally sized slots from a reserved virtual span.
// Data pages are committed lazily as the bump pointer first touches
// them and are never given back until Close. Free-list bookkeeping
// lives in a second, independently paged span that grows as slots are
// freed and shrinks again, with one page of hysteresis slack, as freed
// slots are reallocated.
//
// # Quick Start
//
//	a, err := slabarena.New("sessions", 64, 10_000)
//	if err != nil { ... }
//	defer a.Close()
//
//	addr, ok := a.Alloc()
//	if !ok {
//	    // capacity exhausted, not an error
//	}
//	copy(a.Bytes(addr), payload)
//	...
//	a.Free(addr)
//
// Slot content is owned entirely by the caller: the arena never reads
// or writes it, it is not zeroed on Alloc, and a reused slot still
// holds whatever the previous owner left there.
//
// # Addresses
//
// Alloc returns an Addr into the arena's data span. InRange reports
// whether an address falls below the current high-water mark; note
// that a freed slot stays in range, because the bump pointer never
// retreats. Bytes converts an in-range address into the slot's content
// view so callers never touch raw pointers.
//
// # Misuse
//
// Freeing an address the arena did not hand out, freeing twice, or
// using the arena after Close panics. A backing-store failure while
// committing a page mid-operation also panics: the caller has no way
// to retry at a different address, so continuing would risk
// corruption. Construction-time failures are ordinary errors.
//
// # Concurrency
//
// An Arena is NOT self-synchronizing. Callers must serialize Alloc,
// Free and Close externally (one arena per worker, or an outer lock),
// matching usual slab-allocator practice. InRange, Start, End and
// Stats are reads and need the same serialization.
//
// # Paging
//
// On unix the backing store reserves address space with PROT_NONE and
// commits pages with mprotect, so untouched capacity costs no physical
// memory and decommitted bookkeeping pages are returned to the kernel
// via MADV_DONTNEED. Elsewhere a plain heap buffer stands in and the
// paging machinery degenerates to bookkeeping only.
package slabarena
