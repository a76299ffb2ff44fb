// Package api define interfaces used by allocator implementations
// and their consumers.
package api

import "unsafe"

// Mallocer interface for custom memory management. Implementations
// are not expected to be thread safe.
type Mallocer interface {
	// Alloc a chunk of `n` bytes, aligned to `align`. Allocated
	// chunks are never smaller than `n`, and the pointer returned
	// shall never be nil: failure to obtain memory from the OS is
	// treated as fatal by implementations.
	Alloc(n, align int64) unsafe.Pointer

	// Free a chunk back to the allocator. `ptr` shall be a pointer
	// previously returned by Alloc and not already freed, nil
	// pointers panic.
	Free(ptr unsafe.Pointer)

	// Realloc grow chunk to `n` bytes. If the chunk's capacity
	// already covers `n` the same pointer is returned. Otherwise a
	// replacement chunk is obtained, capacity bytes are copied
	// into it and the original chunk is freed. A nil return means
	// the replacement could not be obtained and the original
	// pointer is still owned by the caller.
	Realloc(ptr unsafe.Pointer, align, n int64) unsafe.Pointer

	// Count return number of free chunks held by the allocator.
	Count() int64

	// Info of memory accounting for this allocator.
	Info() (capacity, heap, alloc, overhead int64)
}
