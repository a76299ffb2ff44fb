package malloc

import "fmt"
import "math"
import "unsafe"

// Validate walk the full index and panic on any broken invariant:
// sort order on capacity, AVL balance, height bookkeeping, stored
// self-references, the header/data offset of every reachable chunk,
// and the chunk count. Cheap enough for tests, expensive for hot
// paths.
func (t *AVLTree) Validate() {
	n := validateavltree(t.root, 0, math.MaxInt64)
	if n != t.n_count {
		fmsg := "validate(): n_count:%v != reachable nodes:%v"
		panic(fmt.Errorf(fmsg, t.n_count, n))
	}
	if t.root != nil {
		// a balanced tree of n nodes stays within ~1.44*log2(n).
		maxh := int64(1.45*math.Log2(float64(n+1))) + 2
		if t.root.height > maxh {
			fmsg := "validate(): height %v exceeds %v for %v nodes"
			panic(fmt.Errorf(fmsg, t.root.height, maxh, n))
		}
	}
}

func validateavltree(nd *Avlnode, lowcap, highcap int64) (count int64) {
	if nd == nil {
		return 0
	}

	if nd.left == nd || nd.right == nd {
		panic(fmt.Errorf("validate(): %v refers to itself", nd.repr()))
	}
	if nd.capacity <= lowcap || nd.capacity >= highcap {
		fmsg := "validate(): sort order, %v outside (%v,%v)"
		panic(fmt.Errorf(fmsg, nd.repr(), lowcap, highcap))
	}
	if h := maxint64(height(nd.left), height(nd.right)) + 1; nd.height != h {
		fmsg := "validate(): height %v != %v at %v"
		panic(fmt.Errorf(fmsg, nd.height, h, nd.repr()))
	}
	if bf := nd.balancefactor(); bf < -1 || bf > 1 {
		fmsg := "validate(): balance factor %v at %v"
		panic(fmt.Errorf(fmsg, bf, nd.repr()))
	}
	base := uintptr(unsafe.Pointer(nd)) + uintptr(avlnodesize)
	if uintptr(nd.dataptr) != base {
		fmsg := "validate(): %v data pointer is not header + %v"
		panic(fmt.Errorf(fmsg, nd.repr(), avlnodesize))
	}

	count = validateavltree(nd.left, lowcap, nd.capacity)
	count += validateavltree(nd.right, nd.capacity, highcap)
	return count + 1
}
