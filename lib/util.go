package lib

import "unsafe"
import "reflect"

// Memcpy copy memory block of length `ln` from `src` to `dst`. This
// function is useful if memory block is obtained outside golang
// runtime, as with memory mapped from the OS.
func Memcpy(dst, src unsafe.Pointer, ln int) int {
	var srcnd, dstnd []byte
	srcsl := (*reflect.SliceHeader)(unsafe.Pointer(&srcnd))
	srcsl.Len, srcsl.Cap = ln, ln
	srcsl.Data = (uintptr)(src)
	dstsl := (*reflect.SliceHeader)(unsafe.Pointer(&dstnd))
	dstsl.Len, dstsl.Cap = ln, ln
	dstsl.Data = (uintptr)(dst)
	return copy(dstnd, srcnd)
}

// Memset fill memory block of length `ln` at `dst` with byte `b`.
func Memset(dst unsafe.Pointer, b byte, ln int) {
	var dstnd []byte
	dstsl := (*reflect.SliceHeader)(unsafe.Pointer(&dstnd))
	dstsl.Len, dstsl.Cap = ln, ln
	dstsl.Data = (uintptr)(dst)
	for i := range dstnd {
		dstnd[i] = b
	}
}

// AbsInt64 absolute value of a 64-bit integer.
func AbsInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
