package malloc

import "fmt"
import "errors"

// ErrorOutofMemory chunk creation would exceed the configured
// capacity of the index.
var ErrorOutofMemory = errors.New("avl.outofmemory")

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}

// checkalign data pointers sit at a fixed offset from their header,
// alignments beyond what that offset already guarantees cannot be
// honoured.
func checkalign(align int64) {
	if align == 0 {
		return
	}
	if align < 0 || align > Alignment || (align&(align-1)) != 0 {
		panicerr("alignment %v not a power of 2 within %v", align, Alignment)
	}
}

func maxint64(x, y int64) int64 {
	if x > y {
		return x
	}
	return y
}

// pageceil round `n` up to a whole number of OS pages.
func pageceil(n int64) int64 {
	return ((n + pagesize - 1) / pagesize) * pagesize
}
