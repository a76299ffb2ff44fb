package malloc

import "testing"
import "unsafe"

import "github.com/jcopland/alloc-expr/lib"

func TestAllocScenario(t *testing.T) {
	tr := NewAVLTree("allocscenario", Defaultsettings())

	// empty index, first allocation maps one page.
	ptr := tr.Alloc(64, 0)
	if ptr == nil {
		t.Fatalf("unexpected nil from Alloc")
	}
	capacity := nodefromptr(ptr).Capacity()
	if capacity != pagesize-avlnodesize {
		t.Errorf("expected %v, got %v", pagesize-avlnodesize, capacity)
	}
	if stats := tr.Stats(); stats["n_mmaps"].(int64) != 1 {
		t.Errorf("expected %v, got %v", 1, stats["n_mmaps"])
	}

	// free indexes the chunk keyed by its capacity.
	tr.Free(ptr)
	if tr.Count() != 1 {
		t.Errorf("expected %v, got %v", 1, tr.Count())
	}
	tr.Validate()

	// a request within the free chunk's capacity reuses it, same
	// pointer, no fresh mapping.
	ptr2 := tr.Alloc(100, 0)
	if ptr2 != ptr {
		t.Errorf("expected %p, got %p", ptr, ptr2)
	}
	if stats := tr.Stats(); stats["n_mmaps"].(int64) != 1 {
		t.Errorf("expected %v, got %v", 1, stats["n_mmaps"])
	} else if stats["n_reuses"].(int64) != 1 {
		t.Errorf("expected %v, got %v", 1, stats["n_reuses"])
	}
	tr.Free(ptr2)

	// a request past the free chunk's capacity maps afresh, at
	// least two pages, distinct pointer.
	ptr3 := tr.Alloc(capacity+1, 0)
	if ptr3 == ptr {
		t.Errorf("expected a fresh chunk, got the freed one")
	}
	if x := nodefromptr(ptr3).Capacity(); x != 2*pagesize-avlnodesize {
		t.Errorf("expected %v, got %v", 2*pagesize-avlnodesize, x)
	}
	if stats := tr.Stats(); stats["n_mmaps"].(int64) != 2 {
		t.Errorf("expected %v, got %v", 2, stats["n_mmaps"])
	}
	if tr.Count() != 1 { // the first chunk is still free
		t.Errorf("expected %v, got %v", 1, tr.Count())
	}
	tr.Validate()
}

func TestAllocRoundtrip(t *testing.T) {
	tr := NewAVLTree("allocroundtrip", Defaultsettings())
	ptrs := make([]unsafe.Pointer, 0, 32)
	for i := 0; i < 32; i++ {
		ptr := tr.Alloc(int64(i)*pagesize+8, 8)
		nd := nodefromptr(ptr)
		if nd.Data() != ptr {
			t.Errorf("expected %p, got %p", ptr, nd.Data())
		}
		ptrs = append(ptrs, ptr)
	}
	for _, ptr := range ptrs {
		tr.Free(ptr)
	}
	tr.Validate()
	if tr.Count() != 32 {
		t.Errorf("expected %v, got %v", 32, tr.Count())
	}
}

func TestFree(t *testing.T) {
	tr := NewAVLTree("free", Defaultsettings())

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		tr.Free(nil)
	}()

	// two chunks of identical capacity, the second free is dropped
	// from the index and leaks its mapping.
	ptr1, ptr2 := tr.Alloc(64, 0), tr.Alloc(64, 0)
	tr.Free(ptr1)
	tr.Free(ptr2)
	if tr.Count() != 1 {
		t.Errorf("expected %v, got %v", 1, tr.Count())
	}
	if stats := tr.Stats(); stats["n_dupdrops"].(int64) != 1 {
		t.Errorf("expected %v, got %v", 1, stats["n_dupdrops"])
	}
	tr.Validate()
}

func TestRealloc(t *testing.T) {
	tr := NewAVLTree("realloc", Defaultsettings())

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		tr.Realloc(nil, 0, 64)
	}()

	ptr := tr.Alloc(64, 0)
	capacity := nodefromptr(ptr).Capacity()
	payload := []byte("large chunks cycle, they never unmap")
	lib.Memcpy(ptr, unsafe.Pointer(&payload[0]), len(payload))

	// capacity already covers the growth, same pointer.
	if x := tr.Realloc(ptr, 0, capacity); x != ptr {
		t.Errorf("expected %p, got %p", ptr, x)
	}

	// growth past capacity moves to a fresh chunk, payload intact,
	// original chunk released to the index.
	newptr := tr.Realloc(ptr, 0, capacity+1)
	if newptr == nil || newptr == ptr {
		t.Fatalf("expected a fresh chunk, got %p", newptr)
	}
	buf := make([]byte, len(payload))
	lib.Memcpy(unsafe.Pointer(&buf[0]), newptr, len(buf))
	if string(buf) != string(payload) {
		t.Errorf("expected %q, got %q", payload, buf)
	}
	if tr.Count() != 1 {
		t.Errorf("expected %v, got %v", 1, tr.Count())
	}
	tr.Validate()

	// the released chunk is the next best fit for small requests.
	if x := tr.Alloc(64, 0); x != ptr {
		t.Errorf("expected %p, got %p", ptr, x)
	}
}

func TestAllocOutofMemory(t *testing.T) {
	setts := Defaultsettings()
	setts["capacity"] = pagesize
	tr := NewAVLTree("oom", setts)

	ptr := tr.Alloc(8, 0) // exactly one page
	defer func() {
		if r := recover(); r != ErrorOutofMemory {
			t.Errorf("expected %v, got %v", ErrorOutofMemory, r)
		}
	}()
	tr.Alloc(pagesize, 0) // needs a second page
	t.Errorf("unexpected allocation beyond capacity %p", ptr)
}

func TestInfo(t *testing.T) {
	tr := NewAVLTree("info", Defaultsettings())
	ptr := tr.Alloc(64, 0)

	capacity, heap, alloc, overhead := tr.Info()
	if capacity != Maxcapacity {
		t.Errorf("expected %v, got %v", Maxcapacity, capacity)
	} else if heap != pagesize {
		t.Errorf("expected %v, got %v", pagesize, heap)
	} else if alloc != pagesize-avlnodesize {
		t.Errorf("expected %v, got %v", pagesize-avlnodesize, alloc)
	} else if overhead != avlnodesize {
		t.Errorf("expected %v, got %v", avlnodesize, overhead)
	}

	tr.Free(ptr)
	if _, heap, alloc, _ := tr.Info(); heap != pagesize || alloc != 0 {
		t.Errorf("expected %v/%v, got %v/%v", pagesize, 0, heap, alloc)
	}

	tr.Log(true)
	tr.Log(false)
}

func TestPageBoundary(t *testing.T) {
	// every fresh chunk goes through the page-mapping boundary,
	// reuse must not.
	calls := 0
	old := requestmemory
	requestmemory = func(length int64) unsafe.Pointer {
		if length%pagesize != 0 {
			t.Errorf("mapping length %v not page quantized", length)
		}
		calls++
		return old(length)
	}
	defer func() { requestmemory = old }()

	tr := NewAVLTree("pageboundary", Defaultsettings())
	ptr := tr.Alloc(64, 0)
	if calls != 1 {
		t.Errorf("expected %v, got %v", 1, calls)
	}
	tr.Free(ptr)
	tr.Alloc(100, 0)
	if calls != 1 {
		t.Errorf("expected %v, got %v", 1, calls)
	}
	tr.Alloc(pagesize, 0)
	if calls != 2 {
		t.Errorf("expected %v, got %v", 2, calls)
	}
}
