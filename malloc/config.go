package malloc

import s "github.com/bnclabs/gosettings"

// Alignment guaranteed for every data pointer returned by Alloc.
// Requests for stricter alignment panic, the chunk header's size is
// what fixes the data offset and it cannot move per-request.
const Alignment = int64(8)

// Maxcapacity maximum heap size manageable by a single index. Can be
// used as default for the `capacity` setting.
const Maxcapacity = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Defaultsettings for NewAVLTree().
//
// "capacity" (int64, default: Maxcapacity)
//		Maximum number of bytes mappable by this index, fresh
//		mappings beyond it panic with ErrorOutofMemory.
//
// "allocator" (string, default: "avl")
//		Backing index algorithm. Only "avl" is supported.
func Defaultsettings() s.Settings {
	return s.Settings{
		"capacity":  Maxcapacity,
		"allocator": "avl",
	}
}

func (t *AVLTree) readsettings(setts s.Settings) {
	t.capacity = setts.Int64("capacity")
	t.allocator = setts.String("allocator")
	if t.capacity <= 0 {
		panicerr("capacity cannot be ZERO")
	} else if t.capacity > Maxcapacity {
		panicerr("capacity %v exceeds %v", t.capacity, Maxcapacity)
	}
	switch t.allocator {
	case "avl":
	default:
		panicerr("unknown allocator %q", t.allocator)
	}
}
