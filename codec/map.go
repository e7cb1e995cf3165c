package codec

import "io"

// OrderedMap is a string to string map that preserves insertion order across
// an encode/decode round trip, unlike a plain Go map. FileHeader's
// metadata_ext field needs this: two headers encoded from the same logical
// content must produce identical bytes.
type OrderedMap struct {
	keys   []string
	values map[string]string
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]string)}
}

// Set adds or updates key. Updating an existing key does not change its
// position in iteration order.
func (m *OrderedMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// EncodeOrderedMap appends the length-prefixed, insertion-order sequence of
// key/value string pairs.
func EncodeOrderedMap(m *OrderedMap) []byte {
	if m == nil {
		return EncodeLength(0)
	}
	out := make([]byte, 0, 8+16*m.Len())
	out = append(out, EncodeLength(m.Len())...)
	for _, k := range m.keys {
		out = append(out, EncodeString(k)...)
		out = append(out, EncodeString(m.values[k])...)
	}
	return out
}

// DecodeOrderedMap reads a length-prefixed sequence of key/value string
// pairs, preserving the order they were written in.
func DecodeOrderedMap(r io.Reader) (*OrderedMap, error) {
	n, err := DecodeLength(r)
	if err != nil {
		return nil, err
	}
	m := &OrderedMap{values: make(map[string]string, n)}
	for i := uint64(0); i < n; i++ {
		k, err := DecodeString(r)
		if err != nil {
			return nil, err
		}
		v, err := DecodeString(r)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}
