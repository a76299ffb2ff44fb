package malloc

import "unsafe"

import "github.com/jcopland/alloc-expr/api"
import "github.com/jcopland/alloc-expr/lib"

//---- operations, implement api.Mallocer{} interface.

// Alloc implement api.Mallocer{} interface. Reuse the best-fitting
// free chunk, else map a fresh one. Never returns nil: a mapping
// failure panics and a request beyond the configured capacity panics
// with ErrorOutofMemory.
func (t *AVLTree) Alloc(n, align int64) unsafe.Pointer {
	checkalign(align)
	t.n_allocs++
	if nd := t.remove(n); nd != nil {
		t.n_reuses++
		t.alloc += nd.capacity
		return nd.dataptr
	}
	total := pageceil(avlnodesize + n)
	if t.heap+total > t.capacity {
		panic(ErrorOutofMemory)
	}
	nd := newnode(n, align)
	t.n_mmaps++
	t.heap += total
	t.overhead += avlnodesize
	t.alloc += nd.capacity
	return nd.dataptr
}

// Free implement api.Mallocer{} interface. Recover the chunk header
// by fixed back-offset and index the chunk for reuse.
func (t *AVLTree) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		panicerr("Free(): nil pointer")
	}
	nd := nodefromptr(ptr)
	t.n_frees++
	t.alloc -= nd.capacity
	if t.insert(nd) == false {
		t.n_dupdrops++
		debugf("%v dropped duplicate chunk of %v bytes\n",
			t.logprefix, nd.capacity)
	}
}

// Realloc implement api.Mallocer{} interface. Growth goes through
// this same index, Alloc, so every large chunk in the process stays
// under one owner. The nil return is part of the interface contract
// even though this index's Alloc cannot fail softly.
func (t *AVLTree) Realloc(ptr unsafe.Pointer, align, n int64) unsafe.Pointer {
	if ptr == nil {
		panicerr("Realloc(): nil pointer")
	}
	nd := nodefromptr(ptr)
	if nd.capacity >= n {
		return ptr
	}
	newptr := t.Alloc(n, align)
	if newptr == nil {
		return nil
	}
	lib.Memcpy(newptr, ptr, int(nd.capacity))
	t.Free(ptr)
	return newptr
}

// Info implement api.Mallocer{} interface.
func (t *AVLTree) Info() (capacity, heap, alloc, overhead int64) {
	return t.capacity, t.heap, t.alloc, t.overhead
}

//---- compile time check.

var _ api.Mallocer = &AVLTree{}
