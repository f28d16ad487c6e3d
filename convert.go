package chainmap

import (
	"encoding/json"
)

// ToMap collect all entries and return a map[K]V
func (m *Map[K, V]) ToMap() map[K]V {
	a := make(map[K]V, m.size)
	for _, h := range m.buckets {
		for ; h != 0; h = m.nodes.at(h).next {
			n := m.nodes.at(h)
			a[n.key] = n.value
		}
	}
	return a
}

// FromMap stores every entry of source, overwriting existing keys.
func (m *Map[K, V]) FromMap(source map[K]V) {
	m.initSlow()
	for k, v := range source {
		m.putVal(m.keyHash(k), k, v, false)
	}
}

// Clone returns an independent copy of the map with the same options,
// bucket count and chain order. The copy's hasher is shared with m, so
// hashes cached in the nodes stay valid.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{
		loadFactor:    m.loadFactor,
		minBuckets:    m.minBuckets,
		threshold:     m.threshold,
		shrinkEnabled: m.shrinkEnabled,
		keyHash:       m.keyHash,
		valEqual:      m.valEqual,
		log:           m.log,
		totalGrowths:  m.totalGrowths,
		totalShrinks:  m.totalShrinks,
	}
	if m.buckets == nil {
		return c
	}
	c.buckets = make([]handle, len(m.buckets))
	for i, h := range m.buckets {
		var tail handle
		for ; h != 0; h = m.nodes.at(h).next {
			n := m.nodes.at(h)
			ch := c.nodes.alloc(n.hash, n.key, n.value)
			if tail == 0 {
				c.buckets[i] = ch
			} else {
				c.nodes.at(tail).next = ch
			}
			tail = ch
		}
	}
	c.size = m.size
	return c
}

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the default JSON serialization and deserialization functions.
// If not set, the standard library is used by default.
func SetDefaultJSONMarshal(marshal func(v any) ([]byte, error), unmarshal func(data []byte, v any) error) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

// MarshalJSON JSON serialization
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if jsonMarshal != nil {
		return jsonMarshal(m.ToMap())
	}
	return json.Marshal(m.ToMap())
}

// UnmarshalJSON JSON deserialization
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	var a map[K]V
	if jsonUnmarshal != nil {
		if err := jsonUnmarshal(data, &a); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
	}
	m.FromMap(a)
	return nil
}
