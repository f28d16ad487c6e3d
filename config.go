package chainmap

import (
	"log/slog"
	"math"
)

const (
	// defaultLoadFactor is the size to bucket count ratio that triggers growth.
	defaultLoadFactor = 0.75
	// defaultMinBuckets is the initial bucket count of every map and the
	// floor below which the table never shrinks.
	defaultMinBuckets = 16
)

// MapConfig defines configurable Map options.
type MapConfig struct {
	// loadFactor is the growth trigger ratio. Zero means defaultLoadFactor.
	loadFactor float64

	// capacity is the expected number of entries. The initial table is
	// sized so that capacity entries fit without growing, and that size
	// becomes the shrink floor.
	capacity int

	// shrinkEnabled allows the table to halve after removals.
	shrinkEnabled bool

	// keyHash holds a func(K) uint64, checked against K in Init.
	keyHash any

	// valEqual holds a func(V, V) bool, checked against V in Init.
	valEqual any

	logger *slog.Logger
}

// WithLoadFactor sets the ratio of size to bucket count at which the table
// doubles. Values that are not finite and positive are ignored.
func WithLoadFactor(loadFactor float64) func(*MapConfig) {
	return func(c *MapConfig) {
		if loadFactor > 0 && !math.IsInf(loadFactor, 0) {
			c.loadFactor = loadFactor
		}
	}
}

// WithCapacity configures new Map instance with a table large enough
// to hold capacity entries before the first growth. The capacity is treated
// as the minimal capacity, meaning that the table will never shrink below
// it. If capacity is zero or negative, the value is ignored.
func WithCapacity(capacity int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.capacity = capacity
	}
}

// WithAutoShrink configures the map to halve its table when removals leave
// it less than a quarter as full as the growth threshold. The shrink happens on
// the second consecutive qualifying removal and leaves the smaller table
// below half its threshold, so puts and removes around the boundary do not
// resize back and forth.
// Disabled by default.
func WithAutoShrink() func(*MapConfig) {
	return func(c *MapConfig) {
		c.shrinkEnabled = true
	}
}

// WithKeyHasher sets a custom key hashing function.
//
// The function must be deterministic for the lifetime of the map and
// must return equal hashes for equal keys. Violating this is not detected;
// it silently breaks lookups.
//
// Usage:
//
//	m := New[string, int](WithKeyHasher(func(k string) uint64 {
//		return uint64(len(k))
//	}))
func WithKeyHasher[K comparable](keyHash func(key K) uint64) func(*MapConfig) {
	return func(c *MapConfig) {
		if keyHash != nil {
			c.keyHash = keyHash
		}
	}
}

// WithValueEqual sets a custom value equality function, used by
// CompareAndRemove, ContainsEntry and RemoveEntry. It is required for
// value types that are not comparable, such as slices.
func WithValueEqual[V any](valEqual func(val, val2 V) bool) func(*MapConfig) {
	return func(c *MapConfig) {
		if valEqual != nil {
			c.valEqual = valEqual
		}
	}
}

// WithLogger enables debug logging of table resizes and clears.
func WithLogger(logger *slog.Logger) func(*MapConfig) {
	return func(c *MapConfig) {
		c.logger = logger
	}
}

// calcTableLen returns the bucket count needed to hold capacity entries
// below the growth threshold, never less than defaultMinBuckets.
func calcTableLen(capacity int, loadFactor float64) int {
	tableLen := defaultMinBuckets
	if capacity > 0 {
		need := int(math.Ceil(float64(capacity+1) / loadFactor))
		tableLen = max(tableLen, nextPowOf2(need))
	}
	return tableLen
}

// calcThreshold returns the size at which a table of tableLen buckets grows.
// Thresholds that do not fit an int are clamped to math.MaxInt, so a huge
// load factor means the table never grows.
func calcThreshold(tableLen int, loadFactor float64) int {
	t := float64(tableLen) * loadFactor
	if t >= math.MaxInt {
		return math.MaxInt
	}
	return max(1, int(t))
}

// nextPowOf2 calculates the smallest power of 2 that is greater than or equal to n.
func nextPowOf2(n int) int {
	if n <= 1 {
		return 1
	}
	v := uint64(n)
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return int(v)
}
