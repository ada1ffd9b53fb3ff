package keyed

import (
	"iter"

	"github.com/google/btree"

	"github.com/rawbytedev/inlinestr"
)

const degree = 16

type entry[V any] struct {
	key inlinestr.Str
	val V
	// probe is set on lookup entries only; they carry a plain string
	// instead of a key.
	probe   string
	probing bool
}

func (e *entry[V]) text() string {
	if e.probing {
		return e.probe
	}
	return e.key.View()
}

func less[V any](a, b *entry[V]) bool { return a.text() < b.text() }

func probe[V any](k string) *entry[V] { return &entry[V]{probe: k, probing: true} }

// Ordered is a sorted map keyed by Str in byte-lexicographic order.
type Ordered[V any] struct {
	tree *btree.BTreeG[*entry[V]]
}

func NewOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{tree: btree.NewG[*entry[V]](degree, less[V])}
}

// Set stores v under k and reports whether an existing entry was replaced.
func (o *Ordered[V]) Set(k inlinestr.Str, v V) bool {
	_, replaced := o.tree.ReplaceOrInsert(&entry[V]{key: k, val: v})
	return replaced
}

func (o *Ordered[V]) Get(k inlinestr.Str) (V, bool) {
	return o.GetString(k.View())
}

// GetString looks up k by comparing it against stored keys directly.
func (o *Ordered[V]) GetString(k string) (V, bool) {
	e, ok := o.tree.Get(probe[V](k))
	if !ok {
		var zero V
		return zero, false
	}
	return e.val, true
}

func (o *Ordered[V]) Has(k string) bool { return o.tree.Has(probe[V](k)) }

func (o *Ordered[V]) Delete(k inlinestr.Str) bool {
	return o.DeleteString(k.View())
}

func (o *Ordered[V]) DeleteString(k string) bool {
	_, ok := o.tree.Delete(probe[V](k))
	return ok
}

func (o *Ordered[V]) Len() int { return o.tree.Len() }

// Min returns the smallest key and its value.
func (o *Ordered[V]) Min() (inlinestr.Str, V, bool) {
	e, ok := o.tree.Min()
	return unpack(e, ok)
}

// Max returns the largest key and its value.
func (o *Ordered[V]) Max() (inlinestr.Str, V, bool) {
	e, ok := o.tree.Max()
	return unpack(e, ok)
}

func unpack[V any](e *entry[V], ok bool) (inlinestr.Str, V, bool) {
	if !ok {
		var zero V
		return inlinestr.Str{}, zero, false
	}
	return e.key, e.val, true
}

// All yields entries in ascending key order.
func (o *Ordered[V]) All() iter.Seq2[inlinestr.Str, V] {
	return func(yield func(inlinestr.Str, V) bool) {
		o.tree.Ascend(func(e *entry[V]) bool {
			return yield(e.key, e.val)
		})
	}
}

// Range yields entries with from <= key < to in ascending order. An empty
// to means no upper bound.
func (o *Ordered[V]) Range(from, to string) iter.Seq2[inlinestr.Str, V] {
	return func(yield func(inlinestr.Str, V) bool) {
		visit := func(e *entry[V]) bool { return yield(e.key, e.val) }
		if to == "" {
			o.tree.AscendGreaterOrEqual(probe[V](from), visit)
			return
		}
		o.tree.AscendRange(probe[V](from), probe[V](to), visit)
	}
}
