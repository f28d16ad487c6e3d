package chainmap

import (
	"log/slog"
)

// index maps a hash to a bucket of a table with tableLen buckets.
// tableLen must be a power of two; this is not checked.
//
//go:nosplit
func index(hash uint64, tableLen int) int {
	return int(hash & uint64(tableLen-1))
}

// grow doubles the table.
//
// A bucket with a single node moves directly to its new index. Longer
// chains are split in one pass on the hash bit that the larger mask adds:
// nodes with that bit clear stay at i, the others move to i+oldLen. Both
// sublists keep the relative order of the original chain.
func (m *Map[K, V]) grow() {
	oldLen := len(m.buckets)
	newLen := oldLen << 1
	bit := uint64(oldLen)
	table := make([]handle, newLen)
	for i, h := range m.buckets {
		if h == 0 {
			continue
		}
		n := m.nodes.at(h)
		if n.next == 0 {
			table[index(n.hash, newLen)] = h
			continue
		}
		var loHead, loTail, hiHead, hiTail handle
		for h != 0 {
			n = m.nodes.at(h)
			if n.hash&bit == 0 {
				if loTail == 0 {
					loHead = h
				} else {
					m.nodes.at(loTail).next = h
				}
				loTail = h
			} else {
				if hiTail == 0 {
					hiHead = h
				} else {
					m.nodes.at(hiTail).next = h
				}
				hiTail = h
			}
			h = n.next
		}
		if loTail != 0 {
			m.nodes.at(loTail).next = 0
			table[i] = loHead
		}
		if hiTail != 0 {
			m.nodes.at(hiTail).next = 0
			table[i+oldLen] = hiHead
		}
	}
	m.replaceTable(table)
	m.totalGrowths++
	m.logResize("grow", oldLen, newLen)
}

// shrink halves the table and reports whether it did. It refuses once the
// table is at its minimum size.
//
// Halving folds buckets i and i+newLen into i, so every node is relinked
// under the smaller mask. Nodes are appended at the tail of their new
// chain, so relative order within each source chain is kept.
func (m *Map[K, V]) shrink() bool {
	oldLen := len(m.buckets)
	if oldLen <= m.minBuckets {
		return false
	}
	newLen := oldLen >> 1
	table := make([]handle, newLen)
	tails := make([]handle, newLen)
	for _, h := range m.buckets {
		for h != 0 {
			n := m.nodes.at(h)
			next := n.next
			n.next = 0
			i := index(n.hash, newLen)
			if tails[i] == 0 {
				table[i] = h
			} else {
				m.nodes.at(tails[i]).next = h
			}
			tails[i] = h
			h = next
		}
	}
	m.replaceTable(table)
	m.totalShrinks++
	m.logResize("shrink", oldLen, newLen)
	return true
}

// maybeShrink runs after a removal. A removal that leaves the map less than
// a quarter as full as the growth threshold arms the shrink; the next removal
// performs it if the condition still holds. Inserts disarm it.
//
// After a shrink the size is below half the new threshold, so getting back
// to the previous table takes more inserts than the map holds.
func (m *Map[K, V]) maybeShrink() {
	if !m.shrinkEnabled {
		return
	}
	if len(m.buckets) <= m.minBuckets || m.size >= m.threshold/4 {
		m.shrinkArmed = false
		return
	}
	if !m.shrinkArmed {
		m.shrinkArmed = true
		return
	}
	m.shrinkArmed = false
	m.shrink()
}

func (m *Map[K, V]) replaceTable(table []handle) {
	m.buckets = table
	m.threshold = calcThreshold(len(table), m.loadFactor)
	m.version++
}

func (m *Map[K, V]) logResize(op string, from, to int) {
	if m.log == nil {
		return
	}
	m.log.Debug(
		"Resized hash table",
		slog.String("op", op),
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Int("size", m.size),
		slog.Int("threshold", m.threshold),
	)
}
