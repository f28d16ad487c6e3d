package chainmap

import (
	"iter"
)

// Iterator is a fail-fast pass over the entries of a Map, created by
// [Map.Iter]. Entries are visited in ascending bucket order and, within a
// bucket, oldest first.
//
// The pass records the map's version when it starts. If the map is
// structurally modified before the pass ends, the next call to Next returns
// false and Err reports an error wrapping ErrConcurrentModification.
// Replacing the value of an existing key does not end the pass.
//
// An Iterator cannot be rewound; call Iter again for a new pass.
//
//	it := m.Iter()
//	for it.Next() {
//		fmt.Println(it.Key(), it.Value())
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type Iterator[K comparable, V any] struct {
	m       *Map[K, V]
	version uint64
	bucket  int
	current handle
	err     error
	done    bool
}

// Iter starts a new iteration pass.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, version: m.version, bucket: -1}
}

// Next advances to the next entry and reports whether there is one.
func (it *Iterator[K, V]) Next() bool {
	if it.done {
		return false
	}
	m := it.m
	if m.version != it.version {
		it.err = concurrentModification(it.version, m.version)
		it.finish()
		return false
	}
	if it.current != 0 {
		if next := m.nodes.at(it.current).next; next != 0 {
			it.current = next
			return true
		}
	}
	for it.bucket++; it.bucket < len(m.buckets); it.bucket++ {
		if h := m.buckets[it.bucket]; h != 0 {
			it.current = h
			return true
		}
	}
	it.finish()
	return false
}

func (it *Iterator[K, V]) finish() {
	it.done = true
	it.current = 0
}

// Key returns the key of the current entry. It is only valid after a call
// to Next that returned true, and panics otherwise.
func (it *Iterator[K, V]) Key() K {
	return it.node().key
}

// Value returns the value of the current entry. It reflects value updates
// made after Next returned.
func (it *Iterator[K, V]) Value() V {
	return it.node().value
}

// Entry returns a copy of the current entry.
func (it *Iterator[K, V]) Entry() Entry[K, V] {
	n := it.node()
	return Entry[K, V]{Hash: n.hash, Key: n.key, Value: n.value}
}

func (it *Iterator[K, V]) node() *node[K, V] {
	if it.current == 0 {
		panic("chainmap: iterator has no current entry; Next must return true first")
	}
	return it.m.nodes.at(it.current)
}

// Err returns the error that ended the pass, if any.
func (it *Iterator[K, V]) Err() error {
	return it.err
}

// ForEach calls fn for every entry. It stops and returns an error wrapping
// ErrConcurrentModification as soon as fn, or anything else, structurally
// modifies the map; entries visited so far are not rolled back.
func (m *Map[K, V]) ForEach(fn func(key K, value V)) error {
	it := m.Iter()
	for it.Next() {
		n := m.nodes.at(it.current)
		fn(n.key, n.value)
	}
	return it.Err()
}

// Entries returns a copy of every entry in iteration order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, m.size)
	it := m.Iter()
	for it.Next() {
		entries = append(entries, it.Entry())
	}
	return entries
}

// All returns an iterator over key/value pairs for use with range.
//
// The loop body may replace values of existing keys but must not insert or
// remove keys; doing so makes the iterator panic with an error wrapping
// ErrConcurrentModification. Use Iter or ForEach to get the error instead.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.Iter()
		for it.Next() {
			n := m.nodes.at(it.current)
			if !yield(n.key, n.value) {
				return
			}
		}
		if err := it.Err(); err != nil {
			panic(err)
		}
	}
}

// Keys is the iterator version for iterating over all keys.
// It follows the same rules as All.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values is the iterator version for iterating over all values.
// It follows the same rules as All.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}
