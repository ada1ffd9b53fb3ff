package keyed

import (
	"hash/maphash"
	"maps"
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/inlinestr"
)

var keys = []string{"x", "the quick brown fox", "", "apple", "the quick brown fox jumps", "日本語"}

func TestMapBorrowKey(t *testing.T) {
	m := NewMap[int](len(keys))
	for i, k := range keys {
		require.False(t, m.Set(inlinestr.New(k), i))
	}
	require.Equal(t, len(keys), m.Len())

	for i, k := range keys {
		v, ok := m.GetString(k)
		require.True(t, ok, "%q", k)
		require.Equal(t, i, v)

		v, ok = m.Get(inlinestr.New(k))
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	_, ok := m.GetString("missing")
	assert.False(t, ok)
	_, ok = m.GetString("\xff")
	assert.False(t, ok)

	assert.True(t, m.Set(inlinestr.New("x"), 100))
	v, _ := m.GetString("x")
	assert.Equal(t, 100, v)

	assert.True(t, m.DeleteString("the quick brown fox"))
	assert.False(t, m.DeleteString("the quick brown fox"))
	assert.False(t, m.Delete(inlinestr.New("missing")))
	assert.Equal(t, len(keys)-1, m.Len())

	got := maps.Collect(m.All())
	assert.Len(t, got, len(keys)-1)
}

func TestMapZeroValue(t *testing.T) {
	var m Map[string]
	_, ok := m.GetString("x")
	require.False(t, ok)
	m.Set(inlinestr.New("x"), "y")
	v, ok := m.GetString("x")
	require.True(t, ok)
	require.Equal(t, "y", v)
}

func TestOrderedBorrowKey(t *testing.T) {
	o := NewOrdered[int]()
	for i, k := range keys {
		require.False(t, o.Set(inlinestr.New(k), i))
	}
	require.Equal(t, len(keys), o.Len())

	for i, k := range keys {
		v, ok := o.GetString(k)
		require.True(t, ok, "%q", k)
		require.Equal(t, i, v)
		require.True(t, o.Has(k))

		v, ok = o.Get(inlinestr.New(k))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := o.GetString("missing")
	assert.False(t, ok)

	assert.True(t, o.Set(inlinestr.New("apple"), 7))
	assert.Equal(t, len(keys), o.Len())
}

func TestOrderedIteration(t *testing.T) {
	o := NewOrdered[string]()
	for _, k := range keys {
		o.Set(inlinestr.New(k), k)
	}

	want := slices.Clone(keys)
	sort.Strings(want)

	var got []string
	for k, v := range o.All() {
		require.Equal(t, k.String(), v)
		got = append(got, k.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ascending order mismatch (-want +got):\n%s", diff)
	}

	lo, _, ok := o.Min()
	require.True(t, ok)
	assert.Equal(t, "", lo.String())
	hi, _, ok := o.Max()
	require.True(t, ok)
	assert.Equal(t, "日本語", hi.String())

	var ranged []string
	for k := range o.Range("the", "the quick brown fox!") {
		ranged = append(ranged, k.String())
	}
	assert.Equal(t, []string{"the quick brown fox", "the quick brown fox jumps"}, ranged)

	ranged = ranged[:0]
	for k := range o.Range("x", "") {
		ranged = append(ranged, k.String())
	}
	assert.Equal(t, []string{"x", "日本語"}, ranged)

	for range o.All() {
		break
	}
}

func TestOrderedDelete(t *testing.T) {
	o := NewOrdered[int]()
	o.Set(inlinestr.New("a"), 1)
	o.Set(inlinestr.New("the quick brown fox"), 2)

	assert.True(t, o.Delete(inlinestr.New("a")))
	assert.False(t, o.DeleteString("a"))
	assert.True(t, o.DeleteString("the quick brown fox"))
	assert.Zero(t, o.Len())

	_, _, ok := o.Min()
	assert.False(t, ok)
}

func TestSharedKeyAcrossGoroutines(t *testing.T) {
	key := inlinestr.New("the quick brown fox")
	seed := maphash.MakeSeed()
	want := key.Hash(seed)

	const workers = 16
	var wg sync.WaitGroup
	tables := make([]*Map[int], workers)
	for i := range workers {
		wg.Add(1)
		go func(k inlinestr.Str) {
			defer wg.Done()
			m := NewMap[int](1)
			for j := range 100 {
				if k.View() != "the quick brown fox" || k.Hash(seed) != want || !k.Equal(key) {
					t.Errorf("worker %d: shared key read back wrong", i)
					return
				}
				m.Set(k, j)
			}
			tables[i] = m
		}(key)
	}
	wg.Wait()

	for i, m := range tables {
		require.NotNil(t, m, "worker %d", i)
		v, ok := m.GetString("the quick brown fox")
		require.True(t, ok)
		require.Equal(t, 99, v)
	}
}
