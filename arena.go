package chainmap

import (
	"math"
	"math/bits"
	"unsafe"
)

const (
	// arenaChunkBytes is the target size of one arena chunk.
	arenaChunkBytes = 64 * CacheLineSize
	// minNodesPerChunk bounds the chunk length for large key/value types.
	minNodesPerChunk = 16
)

// handle addresses a node in the arena. The zero handle is the end of a chain.
type handle uint32

// node is one key/value association plus the link to the next node of its
// chain. The hash is computed once on insertion and reused by every resize.
type node[K comparable, V any] struct {
	hash  uint64
	next  handle
	key   K
	value V
}

// arena owns every node of a map. Nodes are allocated in fixed-length
// chunks so that growing the arena never moves existing nodes, and slots
// released by removals are recycled through a free list threaded on next.
type arena[K comparable, V any] struct {
	chunks [][]node[K, V]
	shift  uint
	mask   int
	// used is the number of slots ever handed out, i.e. the high-water mark.
	used int
	free handle
	// live is the number of allocated, not yet released nodes.
	live int
}

func (a *arena[K, V]) init() {
	n := int(arenaChunkBytes / unsafe.Sizeof(node[K, V]{}))
	if p := nextPowOf2(n); p > n {
		n = p >> 1
	}
	n = max(n, minNodesPerChunk)
	a.shift = uint(bits.TrailingZeros(uint(n)))
	a.mask = n - 1
}

//go:nosplit
func (a *arena[K, V]) at(h handle) *node[K, V] {
	i := int(h) - 1
	return &a.chunks[i>>a.shift][i&a.mask]
}

// alloc stores a new unlinked node and returns its handle.
func (a *arena[K, V]) alloc(hash uint64, key K, value V) handle {
	if a.mask == 0 {
		a.init()
	}
	var h handle
	if a.free != 0 {
		h = a.free
		a.free = a.at(h).next
	} else {
		if uint64(a.used) == math.MaxUint32 {
			panic("chainmap: too many entries")
		}
		if a.used == len(a.chunks)<<a.shift {
			a.chunks = append(a.chunks, make([]node[K, V], a.mask+1))
		}
		a.used++
		h = handle(a.used)
	}
	*a.at(h) = node[K, V]{hash: hash, key: key, value: value}
	a.live++
	return h
}

// release returns the slot of h to the free list. The caller must have
// unlinked h from its chain already.
func (a *arena[K, V]) release(h handle) {
	// zero the key and value so the arena does not pin them for the GC
	*a.at(h) = node[K, V]{next: a.free}
	a.free = h
	a.live--
}

// reset drops every node.
func (a *arena[K, V]) reset() {
	a.chunks = nil
	a.used = 0
	a.free = 0
	a.live = 0
}

// chainLen counts the nodes of the chain starting at h.
func (a *arena[K, V]) chainLen(h handle) int {
	n := 0
	for ; h != 0; h = a.at(h).next {
		n++
	}
	return n
}
