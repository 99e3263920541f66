package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s Reader, start, end []byte) []string {
	t.Helper()
	it, err := s.Iterator(start, end)
	require.NoError(t, err)
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key())+"="+string(it.Value()))
	}
	require.NoError(t, it.Error())
	return keys
}

func TestBranch_ReadsThroughAndCommits(t *testing.T) {
	t.Parallel()

	root := NewMemStore()
	require.NoError(t, root.Set([]byte("a"), []byte("1")))
	require.NoError(t, root.Set([]byte("c"), []byte("3")))

	branch := NewBranch(root)
	require.NoError(t, branch.Set([]byte("b"), []byte("2")))
	require.NoError(t, branch.Delete([]byte("a")))
	require.NoError(t, branch.Set([]byte("c"), []byte("33")))

	_, err := branch.Get([]byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"b=2", "c=33"}, collect(t, branch, nil, nil))
	assert.Equal(t, []string{"a=1", "c=3"}, collect(t, root, nil, nil))

	require.NoError(t, branch.Write())
	assert.Equal(t, []string{"b=2", "c=33"}, collect(t, root, nil, nil))
	assert.Zero(t, branch.Dirty())
}

func TestBranch_DiscardLeavesParentUntouched(t *testing.T) {
	t.Parallel()

	root := NewMemStore()
	outer := NewBranch(root)
	require.NoError(t, outer.Set([]byte("k"), []byte("outer")))

	inner := NewBranch(outer)
	require.NoError(t, inner.Set([]byte("k"), []byte("inner")))
	inner.Discard()

	value, err := outer.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "outer", string(value))

	ok, err := root.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefixStore_IsolatesNamespaces(t *testing.T) {
	t.Parallel()

	root := NewMemStore()
	left := NewPrefixStore(root, []byte("c/left/"))
	right := NewPrefixStore(root, []byte("c/right/"))

	require.NoError(t, left.Set([]byte("x"), []byte("1")))
	require.NoError(t, right.Set([]byte("x"), []byte("2")))

	assert.Equal(t, []string{"x=1"}, collect(t, left, nil, nil))
	assert.Equal(t, []string{"x=2"}, collect(t, right, nil, nil))
}

type row struct {
	Owner string `json:"owner"`
	Kind  uint8  `json:"kind"`
}

func TestIndexedMap_PrefixQueriesOnLeadingParts(t *testing.T) {
	t.Parallel()

	rows := NewIndexedMap[row]("assets").
		WithIndex("owner", func(_ []byte, v row) []byte { return Tuple(String(v.Owner)) }).
		WithIndex("kind_owner", func(_ []byte, v row) []byte { return Tuple(Uint8(v.Kind), String(v.Owner)) })

	s := NewMemStore()
	require.NoError(t, rows.Save(s, []byte("a1"), row{Owner: "ann", Kind: 1}))
	require.NoError(t, rows.Save(s, []byte("a2"), row{Owner: "annie", Kind: 1}))
	require.NoError(t, rows.Save(s, []byte("a3"), row{Owner: "ann", Kind: 0}))

	owned, err := rows.Index("owner").Prefix(s, Tuple(String("ann")))
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "a1", string(owned[0].Key))
	assert.Equal(t, "a3", string(owned[1].Key))

	kindOne, err := rows.Index("kind_owner").Prefix(s, Tuple(Uint8(1)))
	require.NoError(t, err)
	assert.Len(t, kindOne, 2)

	// moving a row updates its index entries
	require.NoError(t, rows.Save(s, []byte("a1"), row{Owner: "bob", Kind: 1}))
	owned, err = rows.Index("owner").Prefix(s, Tuple(String("ann")))
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "a3", string(owned[0].Key))

	require.NoError(t, rows.Remove(s, []byte("a3")))
	count, err := rows.Index("owner").Count(s, Tuple(String("ann")))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexedMap_RangeOnUint64Index(t *testing.T) {
	t.Parallel()

	type span struct {
		Start uint64 `json:"start"`
	}
	spans := NewIndexedMap[span]("spans").
		WithIndex("start", func(_ []byte, v span) []byte { return Tuple(Uint64(v.Start)) })

	s := NewMemStore()
	for i, start := range []uint64{300, 10, 256, 5000} {
		require.NoError(t, spans.Save(s, Tuple(Uint64(uint64(i+1))), span{Start: start}))
	}

	got, err := spans.Index("start").Range(s, Tuple(Uint64(200)), nil)
	require.NoError(t, err)
	var starts []uint64
	for _, rec := range got {
		starts = append(starts, rec.Value.Start)
	}
	assert.Equal(t, []uint64{256, 300, 5000}, starts)
}

func TestCounter_StartsAtOne(t *testing.T) {
	t.Parallel()

	s := NewMemStore()
	counter := NewCounter("index_counter")
	first, err := counter.Next(s)
	require.NoError(t, err)
	second, err := counter.Next(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
}
