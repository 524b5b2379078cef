package orderedmap

import (
	"errors"
	"iter"
)

var ErrDuplicateEntry = errors.New("duplicate entry")

// Map remembers the order in which keys were first set. Only the first
// value set for a key is kept.
type Map[K comparable, V any] struct {
	order  []K
	values map[K]V
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		values: make(map[K]V),
	}
}

func (m *Map[K, V]) Set(key K, value V) error {
	if _, exists := m.values[key]; exists {
		return ErrDuplicateEntry
	}
	m.order = append(m.order, key)
	m.values[key] = value
	return nil
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map[K, V]) Len() int {
	return len(m.order)
}

// Range visits entries in insertion order.
func (m *Map[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.order {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}
