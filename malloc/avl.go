package malloc

import "fmt"
import "io"
import "strings"

import s "github.com/bnclabs/gosettings"

// AVLTree index over free chunks keyed by capacity, balanced, with no
// parent pointers. Beyond the index itself it accounts every mapping
// it ever created, whether currently free or handed out.
type AVLTree struct {
	name      string
	logprefix string
	root      *Avlnode

	// settings
	capacity  int64
	allocator string

	// statistics
	n_count    int64 // number of free chunks in the index
	n_inserts  int64
	n_removes  int64
	n_allocs   int64
	n_reuses   int64
	n_mmaps    int64
	n_frees    int64
	n_dupdrops int64
	heap       int64 // bytes mapped from OS, never shrinks
	alloc      int64 // bytes currently owned by the application
	overhead   int64 // bytes spent on chunk headers
}

// NewAVLTree create an empty index. Settings as in Defaultsettings().
func NewAVLTree(name string, setts s.Settings) *AVLTree {
	t := &AVLTree{name: name}
	t.logprefix = fmt.Sprintf("AVL [%s]", name)
	t.readsettings(setts)
	infof("%v started ...\n", t.logprefix)
	return t
}

// ID return the name of this index.
func (t *AVLTree) ID() string {
	return t.name
}

// Count implement api.Mallocer{} interface.
func (t *AVLTree) Count() int64 {
	return t.n_count
}

// Dotdump convert the index into a dot script that can be visualized
// using graphviz.
func (t *AVLTree) Dotdump(buffer io.Writer) {
	lines := []string{
		"digraph avl {",
		"  node[shape=record];\n",
		"}",
	}
	buffer.Write([]byte(strings.Join(lines[:len(lines)-1], "\n")))
	t.root.dotdump(buffer)
	buffer.Write([]byte(lines[len(lines)-1]))
}

//---- tree operations.

// searchdirection tells a recursive walk how the node it holds is
// attached, this stands in for a parent pointer in the header.
type searchdirection byte

const (
	fromroot searchdirection = iota
	fromleft
	fromright
)

type searchdir struct {
	from   searchdirection
	parent *Avlnode
}

// deleteaction tells the caller of deletenode whether the unlink is
// finished or a relocated target still has to be searched out of the
// right subtree.
type deleteaction byte

const (
	noaction deleteaction = iota
	searchdelete
)

func (t *AVLTree) occupant(sd searchdir) *Avlnode {
	switch sd.from {
	case fromleft:
		return sd.parent.left
	case fromright:
		return sd.parent.right
	}
	return t.root
}

func (t *AVLTree) relink(sd searchdir, nd *Avlnode) {
	switch sd.from {
	case fromleft:
		sd.parent.left = nd
	case fromright:
		sd.parent.right = nd
	default:
		t.root = nd
	}
}

// insert a free chunk into the index keyed by its capacity. Returns
// false when a chunk of identical capacity is already indexed, in
// which case the incoming chunk is NOT linked (see package TODO).
func (t *AVLTree) insert(nd *Avlnode) bool {
	root, ok := t.reinsert(t.root, nd.asleaf())
	t.root = root
	if ok {
		t.n_inserts++
		t.n_count++
	}
	return ok
}

func (t *AVLTree) reinsert(root, nd *Avlnode) (*Avlnode, bool) {
	if root == nil {
		return nd, true
	}
	var ok bool
	if nd.capacity < root.capacity {
		root.left, ok = t.reinsert(root.left, nd)
	} else if nd.capacity > root.capacity {
		root.right, ok = t.reinsert(root.right, nd)
	} else {
		return root, false
	}
	return root.rebalance(), ok
}

// remove unlink and return the free chunk with the smallest capacity
// >= size, nil when no indexed chunk is big enough. Find and unlink
// are one traversal, the index holds at most one chunk per capacity
// and a second pass would retrace the same path.
func (t *AVLTree) remove(size int64) *Avlnode {
	if t.root == nil {
		return nil
	}
	nd := t.removenode(t.root, size, searchdir{from: fromroot})
	if nd != nil {
		t.n_removes++
		t.n_count--
		nd.asleaf()
	}
	return nd
}

// removenode lower-bound search for `size` that unlinks its hit. On
// the way back up every frame rebalances whatever node currently
// occupies its slot and writes it back through the direction tag, so
// rotations triggered anywhere below, including by a successor swap,
// are linked in correctly.
func (t *AVLTree) removenode(nd *Avlnode, size int64, sd searchdir) (removed *Avlnode) {
	switch {
	case size < nd.capacity:
		// candidate, a tighter fit can only be on the left.
		if nd.left != nil {
			removed = t.removenode(nd.left, size, searchdir{fromleft, nd})
		}
		if removed == nil {
			// nothing below fits, this node is the lower bound.
			removed = nd
			t.unlinknode(nd, sd)
		}
	case size > nd.capacity:
		// too small, as is everything on the left.
		if nd.right != nil {
			removed = t.removenode(nd.right, size, searchdir{fromright, nd})
		}
	default:
		removed = nd
		t.unlinknode(nd, sd)
	}
	if cur := t.occupant(sd); cur != nil {
		t.relink(sd, cur.rebalance())
	}
	return removed
}

// unlinknode remove a located node from the index. When the deletion
// relocates the node into its successor's old slot, a second bounded
// descent into the captured right subtree finishes the job; there is
// no parent chain to walk back up directly to the relocated node.
func (t *AVLTree) unlinknode(nd *Avlnode, sd searchdir) {
	right := nd.right
	if action, successor := t.deletenode(nd, sd); action == searchdelete {
		t.removenode(right, nd.capacity, searchdir{fromright, successor})
	}
}

func (t *AVLTree) deletenode(nd *Avlnode, sd searchdir) (deleteaction, *Avlnode) {
	if nd.left == nil && nd.right == nil {
		t.relink(sd, nil)
		return noaction, nil

	} else if nd.left != nil && nd.right != nil {
		successor, sucparent := getmin(nd.right, nd)
		return t.swapnodes(nd, successor, sucparent, sd), successor
	}
	// a single child, which is a leaf by the balance invariant.
	// splice it in with the same swap used for the two-child case.
	successor := nd.left
	if successor == nil {
		successor = nd.right
	}
	return t.swapnodes(nd, successor, nd, sd), successor
}

// swapnodes exchange tree positions of `target` and `successor` by
// swapping their shape fields, never their identities, then repair
// the links around them.
func (t *AVLTree) swapnodes(
	target, successor, sucparent *Avlnode, sd searchdir) deleteaction {

	target.swapheader(successor)
	t.relink(sd, successor)

	if sucparent == target {
		// the swap left the successor referring to itself. Resolve
		// it locally: the successor takes back whatever subtree it
		// owned on that side and the target is fully detached.
		if successor.right == successor {
			successor.right, target.right = target.right, nil
		} else {
			successor.left, target.left = target.left, nil
		}
		return noaction
	}
	// successor is always its parent's left child here, getmin took
	// at least one step left past the target's right child.
	sucparent.left = target
	return searchdelete
}

// getmin leftmost node under `nd` along with its immediate parent,
// tracked during the same descent since headers carry no parent.
func getmin(nd, parent *Avlnode) (*Avlnode, *Avlnode) {
	for nd.left != nil {
		parent = nd
		nd = nd.left
	}
	return nd, parent
}
