package containers

import "iter"

// OrderedMap associates unique keys with values and remembers the order in
// which keys were first inserted. Replacing the value of an existing key does
// not move it.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		values: make(map[K]V),
	}
}

// Set inserts value under key. If the map previously contained a mapping for
// the key, the old value is replaced and the key keeps its position.
func (om *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

// Get returns the value mapped to key and whether a mapping exists.
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := om.values[key]
	return v, ok
}

// Has reports whether key is mapped.
func (om *OrderedMap[K, V]) Has(key K) bool {
	_, ok := om.values[key]
	return ok
}

// Remove deletes the mapping for key. It returns false when there was
// nothing to remove.
func (om *OrderedMap[K, V]) Remove(key K) bool {
	if _, exists := om.values[key]; !exists {
		return false
	}
	delete(om.values, key)
	for i := range om.keys {
		if om.keys[i] == key {
			om.keys = append(om.keys[:i], om.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of live keys.
func (om *OrderedMap[K, V]) Len() int {
	return len(om.keys)
}

// Keys returns a copy of the keys in insertion order.
func (om *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(om.keys))
	copy(out, om.keys)
	return out
}

// Values returns the values in insertion order.
func (om *OrderedMap[K, V]) Values() []V {
	out := make([]V, 0, len(om.keys))
	for _, k := range om.keys {
		out = append(out, om.values[k])
	}
	return out
}

// All yields key/value pairs in insertion order. The order is captured when
// iteration starts.
func (om *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range om.Keys() {
			v, ok := om.values[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Iterator returns a one-shot, forward-only iterator over the values as they
// are at the time of the call.
func (om *OrderedMap[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{
		values: om.Values(),
	}
}

// Iterator walks a copy of the values taken at creation. Later changes to
// the map are not seen.
type Iterator[K comparable, V any] struct {
	values []V
	index  int
}

// HasNext returns true if the iteration has more elements.
func (it *Iterator[K, V]) HasNext() bool {
	return it.index < len(it.values)
}

// Next returns the next value. The boolean is false once the iterator is
// exhausted.
func (it *Iterator[K, V]) Next() (V, bool) {
	if !it.HasNext() {
		var zero V
		return zero, false
	}
	v := it.values[it.index]
	it.index++
	return v, true
}
