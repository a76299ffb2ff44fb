//go:build !plan9 && !windows && !js

package malloc

import "os"
import "unsafe"

import "golang.org/x/sys/unix"

var pagesize = int64(os.Getpagesize())

// requestmemory page-mapping boundary used for every fresh chunk,
// kept as a variable so tests can interpose on it.
var requestmemory = osrequest

// osrequest map `length` bytes of anonymous, zero-filled, page-aligned
// memory. Mapping failure is unrecoverable at this layer and panics,
// there is no tier above that could satisfy the request some other
// way.
func osrequest(length int64) unsafe.Pointer {
	mem, err := unix.Mmap(
		-1, 0, int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		panicerr("mmap %v bytes: %v", length, err)
	}
	return unsafe.Pointer(&mem[0])
}
