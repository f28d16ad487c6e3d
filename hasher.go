package chainmap

import (
	"hash/maphash"
	"reflect"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// Hasher is implemented by key types that supply their own hash.
// Equal keys must return equal hashes.
type Hasher interface {
	Hash() uint64
}

// defaultHasher selects the hash function for K.
//
// Integer keys hash to their own value, so sequential keys land in
// sequential buckets. Strings use xxh3. Keys implementing Hasher use their
// own method. Everything else falls back to maphash with a per-map seed,
// which is stable for the lifetime of the map.
func defaultHasher[K comparable]() func(key K) uint64 {
	switch any(*new(K)).(type) {
	case int, uint, uintptr, int64, uint64:
		if unsafe.Sizeof(*new(K)) == 8 {
			return func(key K) uint64 {
				return *(*uint64)(unsafe.Pointer(&key))
			}
		}
		return func(key K) uint64 {
			return uint64(*(*uint32)(unsafe.Pointer(&key)))
		}

	case int32, uint32:
		return func(key K) uint64 {
			return uint64(*(*uint32)(unsafe.Pointer(&key)))
		}

	case int16, uint16:
		return func(key K) uint64 {
			return uint64(*(*uint16)(unsafe.Pointer(&key)))
		}

	case int8, uint8:
		return func(key K) uint64 {
			return uint64(*(*uint8)(unsafe.Pointer(&key)))
		}

	case string:
		return func(key K) uint64 {
			return xxh3.HashString(*(*string)(unsafe.Pointer(&key)))
		}

	case Hasher:
		return func(key K) uint64 {
			return any(key).(Hasher).Hash()
		}

	default:
		seed := maphash.MakeSeed()
		return func(key K) uint64 {
			return maphash.Comparable(seed, key)
		}
	}
}

// defaultValEqual returns == for comparable value types and nil otherwise.
// Interface value types are treated as comparable; comparing two dynamic
// values that are not comparable panics.
func defaultValEqual[V any]() func(val, val2 V) bool {
	if !reflect.TypeFor[V]().Comparable() {
		return nil
	}
	return func(val, val2 V) bool {
		return any(val) == any(val2)
	}
}
