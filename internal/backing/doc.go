// Package backing abstracts the virtual-memory collaborator behind the
// slab pools: reserve a span up front, then attach (commit) and detach
// (decommit) physical pages on demand.
//
// Two stores are provided:
//
//   - The VM store (unix) reserves address space with PROT_NONE and
//     flips page protections on commit/decommit, so uncommitted pages
//     genuinely fault and decommitted pages genuinely return their
//     memory to the kernel.
//   - The heap store backs the span with an ordinary byte slice and
//     only tracks the committed page set. It is the portable fallback
//     and the deterministic fixture for tests (page size is
//     configurable, decommit zeroes pages so stale reads are visible).
//
// Both stores account committed pages themselves, so AllocatedBytes is
// exact regardless of what the kernel does behind MADV_DONTNEED.
package backing
