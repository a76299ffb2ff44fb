package malloc

import "fmt"
import "io"
import "strings"
import "unsafe"

// avlnodesize is the exact byte distance between a chunk's header and
// its data region. Free() and Realloc() walk backwards by this much
// to recover the header from a data pointer.
const avlnodesize = int64(unsafe.Sizeof(Avlnode{}))

// Avlnode chunk header, written in place at the base of the chunk's
// own mapping. `capacity` and `dataptr` identify the chunk and never
// change once written; `height`, `left` and `right` describe the
// chunk's position in the free index and are the only fields touched
// by structural operations.
type Avlnode struct {
	capacity int64
	height   int64
	left     *Avlnode
	right    *Avlnode
	dataptr  unsafe.Pointer
}

// newnode map a fresh chunk big enough for `size` bytes of data and
// write its header at the base of the mapping. The mapped length is
// rounded up to whole pages and the surplus is handed to the caller
// as extra capacity rather than wasted.
func newnode(size, align int64) *Avlnode {
	checkalign(align)
	total := pageceil(avlnodesize + size)
	base := requestmemory(total)
	nd := (*Avlnode)(base)
	nd.capacity = total - avlnodesize
	nd.height = 1
	nd.left, nd.right = nil, nil
	nd.dataptr = unsafe.Pointer(uintptr(base) + uintptr(avlnodesize))
	return nd
}

// nodefromptr recover the owning header from a data pointer handed
// out by Alloc.
func nodefromptr(ptr unsafe.Pointer) *Avlnode {
	return (*Avlnode)(unsafe.Pointer(uintptr(ptr) - uintptr(avlnodesize)))
}

// Capacity usable bytes in this chunk.
func (nd *Avlnode) Capacity() int64 {
	if nd != nil {
		return nd.capacity
	}
	return 0
}

// Data pointer to the first usable byte of this chunk.
func (nd *Avlnode) Data() unsafe.Pointer {
	if nd != nil {
		return nd.dataptr
	}
	return nil
}

//---- index structure.

func height(nd *Avlnode) int64 {
	if nd == nil {
		return 0
	}
	return nd.height
}

func (nd *Avlnode) updateheight() {
	nd.height = maxint64(height(nd.left), height(nd.right)) + 1
}

func (nd *Avlnode) balancefactor() int64 {
	return height(nd.left) - height(nd.right)
}

// rotateright promote the left child: its right subtree becomes this
// node's new left subtree, heights fixed bottom-up. Returns the new
// subtree root, the receiver is left demoted as its right child.
func (nd *Avlnode) rotateright() *Avlnode {
	x := nd.left
	nd.left = x.right
	nd.updateheight()
	x.right = nd
	x.updateheight()
	return x
}

// rotateleft mirror of rotateright.
func (nd *Avlnode) rotateleft() *Avlnode {
	y := nd.right
	nd.right = y.left
	nd.updateheight()
	y.left = nd
	y.updateheight()
	return y
}

// rebalance restore the AVL invariant at this node after a structural
// change below it, returning the node that now roots the subtree.
func (nd *Avlnode) rebalance() *Avlnode {
	nd.updateheight()
	balance := nd.balancefactor()
	if balance > 1 {
		if nd.left.balancefactor() < 0 { // left-right case
			nd.left = nd.left.rotateleft()
		}
		return nd.rotateright()
	} else if balance < -1 {
		if nd.right.balancefactor() > 0 { // right-left case
			nd.right = nd.right.rotateright()
		}
		return nd.rotateleft()
	}
	return nd
}

// swapheader exchange tree-shape fields with `other`. Identity fields,
// capacity and dataptr, stay put so both chunks keep referring to
// their own mappings.
func (nd *Avlnode) swapheader(other *Avlnode) {
	nd.height, other.height = other.height, nd.height
	nd.left, other.left = other.left, nd.left
	nd.right, other.right = other.right, nd.right
}

// asleaf reset the shape fields, done whenever a chunk leaves the
// index or is about to re-enter it.
func (nd *Avlnode) asleaf() *Avlnode {
	nd.height, nd.left, nd.right = 1, nil, nil
	return nd
}

//---- maintanence methods.

func (nd *Avlnode) repr() string {
	return fmt.Sprintf("node<%v,h%v>", nd.capacity, nd.height)
}

func (nd *Avlnode) pprint(prefix string) {
	if nd == nil {
		fmt.Printf("%v\n", nd)
		return
	}
	fmt.Printf("%v%v\n", prefix, nd.repr())
	prefix += "  "
	fmt.Printf("%vleft: ", prefix)
	nd.left.pprint(prefix)
	fmt.Printf("%vright: ", prefix)
	nd.right.pprint(prefix)
}

func (nd *Avlnode) dotdump(buffer io.Writer) {
	if nd == nil {
		return
	}
	lines := []string{
		fmt.Sprintf("  %d [label=\"{%d|h%d}\"];\n", nd.capacity, nd.capacity, nd.height),
	}
	if nd.left != nil {
		lines = append(
			lines, fmt.Sprintf("  %d -> %d;\n", nd.capacity, nd.left.capacity))
	}
	if nd.right != nil {
		lines = append(
			lines, fmt.Sprintf("  %d -> %d;\n", nd.capacity, nd.right.capacity))
	}
	buffer.Write([]byte(strings.Join(lines, "")))
	nd.left.dotdump(buffer)
	nd.right.dotdump(buffer)
}
