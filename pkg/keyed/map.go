// Package keyed provides containers keyed by inlinestr.Str that can be
// queried with a plain string without building an owned key.
//
// Like Go maps, the containers are not safe for concurrent mutation.
// Concurrent readers are fine.
package keyed

import (
	"iter"

	"github.com/rawbytedev/inlinestr"
)

// Map is a hash map keyed by Str. The zero value is ready to use.
type Map[V any] struct {
	m map[inlinestr.Str]V
}

// NewMap returns a Map sized for n entries.
func NewMap[V any](n int) *Map[V] {
	return &Map[V]{m: make(map[inlinestr.Str]V, n)}
}

// Set stores v under k and reports whether an existing entry was replaced.
func (m *Map[V]) Set(k inlinestr.Str, v V) bool {
	if m.m == nil {
		m.m = make(map[inlinestr.Str]V)
	}
	_, ok := m.m[k]
	m.m[k] = v
	return ok
}

func (m *Map[V]) Get(k inlinestr.Str) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// GetString looks up the entry whose key text equals k. k is not copied.
func (m *Map[V]) GetString(k string) (V, bool) {
	key, ok := inlinestr.Borrow(k)
	if !ok {
		var zero V
		return zero, false
	}
	return m.Get(key)
}

// Delete removes k and reports whether it was present.
func (m *Map[V]) Delete(k inlinestr.Str) bool {
	if _, ok := m.m[k]; !ok {
		return false
	}
	delete(m.m, k)
	return true
}

func (m *Map[V]) DeleteString(k string) bool {
	key, ok := inlinestr.Borrow(k)
	if !ok {
		return false
	}
	return m.Delete(key)
}

func (m *Map[V]) Len() int { return len(m.m) }

// All yields every entry in unspecified order.
func (m *Map[V]) All() iter.Seq2[inlinestr.Str, V] {
	return func(yield func(inlinestr.Str, V) bool) {
		for k, v := range m.m {
			if !yield(k, v) {
				return
			}
		}
	}
}
