// Package malloc supplies custom memory management for large
// allocations, with a limited scope:
//
//  * Types and Functions exported by this package are not thread safe.
//  * Memory is requested from the OS as anonymous, zero-filled,
//    page-aligned mappings, one mapping per chunk.
//  * Chunk metadata lives inside the mapping itself, immediately in
//    front of the usable region, so a data pointer alone is enough to
//    recover its chunk.
//  * Free chunks are indexed by capacity in an AVL tree and reused
//    with a best-fit search. A chunk is reused whole, there is no
//    splitting or coalescing.
//  * Once a chunk is mapped it is never returned to the OS. It cycles
//    between "free in the index" and "owned by the application" for
//    the lifetime of the process.
//  * Memory-chunks allocated by this package will always be 64-bit
//    aligned.
//
// The AVL index deliberately stores no parent pointers. Every tree
// walk that needs its ancestry carries a direction tag down the
// recursion instead, which keeps the chunk header at five words.
package malloc

// TODO: a second chunk freed with the same capacity as an indexed one
// is dropped from the index and its mapping leaks. Either chain equal
// capacities into a per-size free list or munmap the duplicate.
