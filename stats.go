package chainmap

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// Stats returns statistics for the Map. It is an O(N) operation,
// so it should be used only for diagnostics or debugging purposes.
func (m *Map[K, V]) Stats() *MapStats {
	stats := &MapStats{
		Buckets:       len(m.buckets),
		MinBuckets:    m.minBuckets,
		Threshold:     m.threshold,
		LoadFactor:    m.loadFactor,
		Size:          m.size,
		MinChain:      math.MaxInt,
		ArenaChunks:   len(m.nodes.chunks),
		ArenaSlots:    m.nodes.used,
		NodeSize:      int(unsafe.Sizeof(node[K, V]{})),
		CacheLineSize: int(CacheLineSize),
		TotalGrowths:  m.totalGrowths,
		TotalShrinks:  m.totalShrinks,
	}
	stats.FreeSlots = m.nodes.used - m.nodes.live
	for _, h := range m.buckets {
		n := m.nodes.chainLen(h)
		stats.Counted += n
		if n == 0 {
			stats.EmptyBuckets++
		}
		stats.MinChain = min(stats.MinChain, n)
		stats.MaxChain = max(stats.MaxChain, n)
	}
	if stats.MinChain == math.MaxInt {
		stats.MinChain = 0
	}
	return stats
}

// MapStats is Map statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Buckets is the number of buckets in the table.
	Buckets int
	// MinBuckets is the size the table starts at and never shrinks below.
	MinBuckets int
	// Threshold is the size at which the table grows next.
	Threshold int
	// LoadFactor is the configured growth ratio.
	LoadFactor float64
	// Size is the number of entries according to the map's counter.
	Size int
	// Counted is the number of entries found by walking every chain.
	// It differs from Size only if the map is corrupted.
	Counted int
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// MinChain is the length of the shortest chain.
	MinChain int
	// MaxChain is the length of the longest chain.
	MaxChain int
	// ArenaChunks is the number of node chunks allocated.
	ArenaChunks int
	// ArenaSlots is the number of node slots ever handed out.
	ArenaSlots int
	// FreeSlots is the number of released node slots awaiting reuse.
	FreeSlots int
	// NodeSize is the size in bytes of one node.
	NodeSize int
	// CacheLineSize is the cache line size used to size arena chunks.
	CacheLineSize int
	// TotalGrowths is the number of times the table grew.
	TotalGrowths int
	// TotalShrinks is the number of times the table shrank.
	TotalShrinks int
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Buckets:       %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("MinBuckets:    %d\n", s.MinBuckets))
	sb.WriteString(fmt.Sprintf("Threshold:     %d\n", s.Threshold))
	sb.WriteString(fmt.Sprintf("LoadFactor:    %g\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("Size:          %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counted:       %d\n", s.Counted))
	sb.WriteString(fmt.Sprintf("EmptyBuckets:  %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("MinChain:      %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:      %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("ArenaChunks:   %d\n", s.ArenaChunks))
	sb.WriteString(fmt.Sprintf("ArenaSlots:    %d\n", s.ArenaSlots))
	sb.WriteString(fmt.Sprintf("FreeSlots:     %d\n", s.FreeSlots))
	sb.WriteString(fmt.Sprintf("NodeSize:      %d\n", s.NodeSize))
	sb.WriteString(fmt.Sprintf("CacheLineSize: %d\n", s.CacheLineSize))
	sb.WriteString(fmt.Sprintf("TotalGrowths:  %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("TotalShrinks:  %d\n", s.TotalShrinks))
	sb.WriteString("}\n")
	return sb.String()
}
