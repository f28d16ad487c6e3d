// Package chainmap provides Map, a single-writer hash map built from a
// power-of-two bucket table and singly linked entry chains.
//
// Map is like a Go map[K]V with a few extensions: put-if-absent,
// compute-in-place, compare-and-remove, fail-fast iteration and optional
// shrinking. It is not safe for concurrent use; callers that share a Map
// between goroutines must serialize whole operations, and whole iteration
// passes, themselves.
package chainmap

import (
	"fmt"
	"log/slog"
	"strings"
)

// Map is a hash map with separate chaining.
//
// The table always holds a power-of-two number of buckets and a key lives
// in bucket hash&(buckets-1). When an insert brings the size up to
// buckets*loadFactor, the table doubles and every chain is split in a
// single pass into the entries that stay at index i and the entries that
// move to i+oldBuckets, without rehashing keys.
//
// Structural changes (insert, remove, resize, clear) advance an internal
// version that iteration passes check before every step. Replacing the value
// of an existing key is not structural and is allowed while iterating.
//
// The zero Map is empty and ready for use with default options.
// A Map must not be copied after first use.
type Map[K comparable, V any] struct {
	_ noCopy

	buckets    []handle
	nodes      arena[K, V]
	size       int
	threshold  int
	loadFactor float64
	minBuckets int
	version    uint64

	shrinkEnabled bool
	shrinkArmed   bool

	keyHash  func(key K) uint64
	valEqual func(val, val2 V) bool
	log      *slog.Logger

	totalGrowths int
	totalShrinks int
}

// Entry is a key/value association as stored in a Map, together with
// the cached hash of its key.
type Entry[K comparable, V any] struct {
	Hash  uint64
	Key   K
	Value V
}

// String renders the entry as [key=value].
func (e Entry[K, V]) String() string {
	return fmt.Sprintf("[%v=%v]", e.Key, e.Value)
}

// ComputeFunc derives the value to store for key. loaded reports whether
// key was present; when it is false, current is the zero value.
type ComputeFunc[K comparable, V any] func(key K, current V, loaded bool) V

// New creates a new Map instance configured with the given options.
func New[K comparable, V any](options ...func(*MapConfig)) *Map[K, V] {
	m := &Map[K, V]{}
	m.Init(options...)
	return m
}

// Init initializes the Map with the given options, discarding any
// entries it holds. Calling Init is optional for the zero Map.
func (m *Map[K, V]) Init(options ...func(*MapConfig)) {
	var cfg MapConfig
	for _, opt := range options {
		opt(&cfg)
	}
	m.init(&cfg)
}

func (m *Map[K, V]) init(cfg *MapConfig) {
	m.loadFactor = cfg.loadFactor
	if m.loadFactor == 0 {
		m.loadFactor = defaultLoadFactor
	}
	m.minBuckets = calcTableLen(cfg.capacity, m.loadFactor)
	m.shrinkEnabled = cfg.shrinkEnabled
	m.shrinkArmed = false
	m.log = cfg.logger

	m.keyHash = defaultHasher[K]()
	if cfg.keyHash != nil {
		keyHash, ok := cfg.keyHash.(func(K) uint64)
		if !ok {
			panic(fmt.Sprintf("chainmap: key hasher %T does not match key type %T", cfg.keyHash, *new(K)))
		}
		m.keyHash = keyHash
	}
	m.valEqual = defaultValEqual[V]()
	if cfg.valEqual != nil {
		valEqual, ok := cfg.valEqual.(func(V, V) bool)
		if !ok {
			panic(fmt.Sprintf("chainmap: value equality %T does not match value type", cfg.valEqual))
		}
		m.valEqual = valEqual
	}

	m.nodes.reset()
	m.buckets = make([]handle, m.minBuckets)
	m.threshold = calcThreshold(m.minBuckets, m.loadFactor)
	m.size = 0
	m.version++
	m.totalGrowths = 0
	m.totalShrinks = 0
}

// initSlow prepares a zero Map on its first write.
func (m *Map[K, V]) initSlow() {
	if m.buckets == nil {
		m.init(&MapConfig{})
	}
}

// Size returns the number of entries in the map.
func (m *Map[K, V]) Size() int {
	return m.size
}

// Get returns the value stored for key. The ok result reports whether
// key was present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if m.buckets == nil {
		return value, false
	}
	hash := m.keyHash(key)
	if h := m.findAt(index(hash, len(m.buckets)), hash, key); h != 0 {
		return m.nodes.at(h).value, true
	}
	return value, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Put stores value for key. It returns the value previously stored for key,
// with loaded reporting whether there was one. Replacing an existing value
// does not count as a structural modification.
func (m *Map[K, V]) Put(key K, value V) (previous V, loaded bool) {
	m.initSlow()
	return m.putVal(m.keyHash(key), key, value, false)
}

// PutIfAbsent stores value for key only if key is not present yet.
// It returns the value already stored for key, with loaded reporting
// whether there was one; in that case the map is left unchanged.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (previous V, loaded bool) {
	m.initSlow()
	return m.putVal(m.keyHash(key), key, value, true)
}

// Compute stores and returns fn(key, current, loaded).
//
// If key is absent, the result is inserted as a new entry. If it is present,
// the value is replaced in place, which is not a structural modification.
func (m *Map[K, V]) Compute(key K, fn ComputeFunc[K, V]) V {
	m.initSlow()
	return m.compute(key, fn, false)
}

// ComputeIfAbsent inserts and returns fn(key, zero, false) if key is absent.
// If key is present its value is returned unchanged and fn is not called.
func (m *Map[K, V]) ComputeIfAbsent(key K, fn ComputeFunc[K, V]) V {
	m.initSlow()
	return m.compute(key, fn, true)
}

func (m *Map[K, V]) compute(key K, fn ComputeFunc[K, V], onlyIfAbsent bool) V {
	hash := m.keyHash(key)
	h := m.findAt(index(hash, len(m.buckets)), hash, key)
	if h == 0 {
		var zero V
		value := fn(key, zero, false)
		m.putVal(hash, key, value, false)
		return value
	}
	if onlyIfAbsent {
		return m.nodes.at(h).value
	}
	version := m.version
	value := fn(key, m.nodes.at(h).value, true)
	if m.version != version {
		// fn changed the structure; h may have been released or reused
		m.putVal(hash, key, value, false)
		return value
	}
	m.nodes.at(h).value = value
	return value
}

// putVal inserts or updates the entry for key and returns the previous value.
func (m *Map[K, V]) putVal(hash uint64, key K, value V, onlyIfAbsent bool) (previous V, loaded bool) {
	idx := index(hash, len(m.buckets))
	h := m.buckets[idx]
	if h == 0 {
		m.buckets[idx] = m.nodes.alloc(hash, key, value)
	} else {
		for {
			n := m.nodes.at(h)
			if n.hash == hash && n.key == key {
				previous = n.value
				if !onlyIfAbsent {
					n.value = value
				}
				return previous, true
			}
			if n.next == 0 {
				break
			}
			h = n.next
		}
		tail := m.nodes.alloc(hash, key, value)
		m.nodes.at(h).next = tail
	}
	m.size++
	m.version++
	m.shrinkArmed = false
	if m.size >= m.threshold {
		m.grow()
	}
	return previous, false
}

// Remove deletes the entry for key and returns its value, with ok
// reporting whether key was present.
func (m *Map[K, V]) Remove(key K) (value V, ok bool) {
	if m.buckets == nil {
		return value, false
	}
	return m.removeVal(m.keyHash(key), key, value, false)
}

// CompareAndRemove deletes the entry for key only if its value equals old.
// It returns the removed value, with ok reporting whether the entry was
// removed.
//
// It panics if the value type is not comparable and no equality function was
// configured with WithValueEqual.
func (m *Map[K, V]) CompareAndRemove(key K, old V) (value V, ok bool) {
	if m.buckets == nil {
		return value, false
	}
	m.mustValEqual()
	return m.removeVal(m.keyHash(key), key, old, true)
}

func (m *Map[K, V]) removeVal(hash uint64, key K, value V, matchValue bool) (removed V, ok bool) {
	idx := index(hash, len(m.buckets))
	var prev handle
	for h := m.buckets[idx]; h != 0; {
		n := m.nodes.at(h)
		if n.hash == hash && n.key == key {
			if matchValue && !m.valEqual(n.value, value) {
				return removed, false
			}
			if prev == 0 {
				m.buckets[idx] = n.next
			} else {
				m.nodes.at(prev).next = n.next
			}
			removed = n.value
			m.nodes.release(h)
			m.size--
			m.version++
			m.maybeShrink()
			return removed, true
		}
		prev, h = h, n.next
	}
	return removed, false
}

// ContainsEntry reports whether the map holds e.Key with a value equal
// to e.Value. The hash of e is ignored and recomputed from the key.
func (m *Map[K, V]) ContainsEntry(e Entry[K, V]) bool {
	value, ok := m.Get(e.Key)
	if !ok {
		return false
	}
	m.mustValEqual()
	return m.valEqual(value, e.Value)
}

// RemoveEntry deletes e.Key only if it maps to a value equal to e.Value
// and reports whether it did.
func (m *Map[K, V]) RemoveEntry(e Entry[K, V]) bool {
	_, ok := m.CompareAndRemove(e.Key, e.Value)
	return ok
}

// EntryEqual reports whether a and b have the same hash, key and value.
func (m *Map[K, V]) EntryEqual(a, b Entry[K, V]) bool {
	if a.Hash != b.Hash || a.Key != b.Key {
		return false
	}
	m.mustValEqual()
	return m.valEqual(a.Value, b.Value)
}

func (m *Map[K, V]) mustValEqual() {
	if m.valEqual == nil {
		panic(fmt.Sprintf("chainmap: value type %T is not comparable, use WithValueEqual", *new(V)))
	}
}

// Clear removes all entries and returns the table to its initial size.
func (m *Map[K, V]) Clear() {
	if m.buckets == nil {
		return
	}
	m.nodes.reset()
	m.buckets = make([]handle, m.minBuckets)
	m.threshold = calcThreshold(m.minBuckets, m.loadFactor)
	m.size = 0
	m.version++
	m.shrinkArmed = false
	if m.log != nil {
		m.log.Debug("Cleared hash map", slog.Int("buckets", m.minBuckets))
	}
}

// findAt returns the node holding key in bucket idx, or 0.
func (m *Map[K, V]) findAt(idx int, hash uint64, key K) handle {
	for h := m.buckets[idx]; h != 0; {
		n := m.nodes.at(h)
		if n.hash == hash && n.key == key {
			return h
		}
		h = n.next
	}
	return 0
}

// String renders every non-empty bucket in index order as a
// comma-separated list of [key=value] items.
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	for _, h := range m.buckets {
		for ; h != 0; h = m.nodes.at(h).next {
			n := m.nodes.at(h)
			if sb.Len() > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "[%v=%v]", n.key, n.value)
		}
	}
	return sb.String()
}

// noCopy may be added to structs which must not be copied
// after the first use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
