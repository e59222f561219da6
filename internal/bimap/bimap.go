// Package bimap provides a map that can be queried in both directions.
package bimap

// Map keeps a one-to-one mapping between keys and values. Neither side may
// hold duplicates. The zero Map is not usable; call New.
type Map[K comparable, V comparable] struct {
	forward  map[K]V
	backward map[V]K
}

// New returns an empty Map.
func New[K comparable, V comparable]() *Map[K, V] {
	return &Map[K, V]{
		forward:  make(map[K]V),
		backward: make(map[V]K),
	}
}

// Add maps k to v. It returns false and changes nothing if either k or v is
// already mapped.
func (m *Map[K, V]) Add(k K, v V) bool {
	if _, ok := m.forward[k]; ok {
		return false
	}
	if _, ok := m.backward[v]; ok {
		return false
	}
	m.forward[k] = v
	m.backward[v] = k
	return true
}

// Value returns the value mapped to k.
func (m *Map[K, V]) Value(k K) (V, bool) {
	v, ok := m.forward[k]
	return v, ok
}

// Key returns the key mapped to v.
func (m *Map[K, V]) Key(v V) (K, bool) {
	k, ok := m.backward[v]
	return k, ok
}

func (m *Map[K, V]) ContainsKey(k K) bool {
	_, ok := m.forward[k]
	return ok
}

func (m *Map[K, V]) ContainsValue(v V) bool {
	_, ok := m.backward[v]
	return ok
}

// Len returns the number of pairs.
func (m *Map[K, V]) Len() int {
	return len(m.forward)
}

// Clear removes every pair.
func (m *Map[K, V]) Clear() {
	m.forward = make(map[K]V)
	m.backward = make(map[V]K)
}

// Range calls fn for each pair until fn returns false. Order is unspecified.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for k, v := range m.forward {
		if !fn(k, v) {
			return
		}
	}
}
