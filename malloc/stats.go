package malloc

import gohumanize "github.com/dustin/go-humanize"

// Stats return accounting for this index.
//
//   "n_count"     number of free chunks in the index.
//   "n_inserts"   chunks indexed, duplicates excluded.
//   "n_removes"   chunks unlinked by best-fit search.
//   "n_allocs"    Alloc() calls.
//   "n_reuses"    Alloc() calls satisfied without a fresh mapping.
//   "n_mmaps"     fresh mappings requested from the OS.
//   "n_frees"     Free() calls, dealloc and realloc-release.
//   "n_dupdrops"  chunks dropped on duplicate capacity.
//   "capacity"    configured ceiling on mapped bytes.
//   "heap"        bytes mapped from the OS so far.
//   "alloc"       bytes currently owned by the application.
//   "overhead"    bytes consumed by chunk headers.
func (t *AVLTree) Stats() map[string]interface{} {
	return map[string]interface{}{
		"n_count":    t.n_count,
		"n_inserts":  t.n_inserts,
		"n_removes":  t.n_removes,
		"n_allocs":   t.n_allocs,
		"n_reuses":   t.n_reuses,
		"n_mmaps":    t.n_mmaps,
		"n_frees":    t.n_frees,
		"n_dupdrops": t.n_dupdrops,
		"capacity":   t.capacity,
		"heap":       t.heap,
		"alloc":      t.alloc,
		"overhead":   t.overhead,
	}
}

// Log current statistics, memory sizes are humanized when asked for.
func (t *AVLTree) Log(humanize bool) {
	stats := t.Stats()

	dohumanize := func(val interface{}) interface{} {
		if humanize {
			return gohumanize.Bytes(uint64(val.(int64)))
		}
		return val.(int64)
	}
	cp := dohumanize(stats["capacity"])
	heap := dohumanize(stats["heap"])
	alloc := dohumanize(stats["alloc"])
	overh := dohumanize(stats["overhead"])
	fmsg := "%v capacity: %v heap: %v alloc: %v overhead: %v\n"
	infof(fmsg, t.logprefix, cp, heap, alloc, overh)

	fmsg = "%v chunks: %v free, allocs: %v (%v reused, %v mapped)\n"
	infof(
		fmsg, t.logprefix, stats["n_count"], stats["n_allocs"],
		stats["n_reuses"], stats["n_mmaps"])
	if n := stats["n_dupdrops"].(int64); n > 0 {
		warnf("%v leaked %v duplicate chunks\n", t.logprefix, n)
	}
}
