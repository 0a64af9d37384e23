// Package slab implements the two demand-paged pools behind the arena
// and the free list threaded through them.
//
// The DataPool holds the object slots. Its pages are committed as the
// bump pointer first touches them and are never decommitted; the
// commit watermark only moves forward.
//
// The ControlPool holds one fixed-size node record per slot. A node is
// live exactly while its slot sits on the free list, so the pool's
// committed footprint follows the free population: pages commit as
// slots are freed and are swept back out, with one page of slack, as
// freed slots are reallocated. The slack page is what keeps a
// Free/Alloc pair straddling a page boundary from committing and
// decommitting the same page on every call.
//
// Neither pool is safe for concurrent use; the arena on top states the
// same requirement.
package slab
