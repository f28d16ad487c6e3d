package chainmap

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line size of the target CPU.
// It's automatically calculated using the `golang.org/x/sys` package
// and is used to size the node arena chunks.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
