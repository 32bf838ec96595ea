// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	stdcmp "cmp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeSearch(t *testing.T) {
	cmp := stdcmp.Compare[int]
	n := &node[int]{keys: []int{10, 20, 30}, leaf: true}
	for _, tc := range []struct {
		k     int
		lower int
		found bool
		upper int
	}{
		{k: 5, lower: 0, found: false, upper: 0},
		{k: 10, lower: 0, found: true, upper: 1},
		{k: 15, lower: 1, found: false, upper: 1},
		{k: 30, lower: 2, found: true, upper: 3},
		{k: 35, lower: 3, found: false, upper: 3},
	} {
		i, found := n.lowerIndex(cmp, tc.k)
		require.Equal(t, tc.lower, i, "lowerIndex(%d)", tc.k)
		require.Equal(t, tc.found, found, "lowerIndex(%d)", tc.k)
		require.Equal(t, tc.upper, n.upperIndex(cmp, tc.k), "upperIndex(%d)", tc.k)
		require.Equal(t, tc.found, n.containsKey(cmp, tc.k))
	}

	empty := &node[int]{leaf: true}
	i, found := empty.lowerIndex(cmp, 1)
	require.Equal(t, 0, i)
	require.False(t, found)
	require.Equal(t, 0, empty.upperIndex(cmp, 1))
}

func TestNodeInsertLocal(t *testing.T) {
	cmp := stdcmp.Compare[int]
	leaf := &node[int]{leaf: true}
	for _, k := range []int{3, 1, 2} {
		leaf.insertLocal(cmp, k, nilNode)
	}
	require.Equal(t, []int{1, 2, 3}, leaf.keys)
	require.Empty(t, leaf.children)
	require.True(t, leaf.overflowed(1))
	require.False(t, leaf.overflowed(2))

	// The new child lands immediately right of the new key.
	internal := &node[int]{keys: []int{10, 30}, children: []nodeID{0, 1, 2}}
	internal.insertLocal(cmp, 20, 7)
	require.Equal(t, []int{10, 20, 30}, internal.keys)
	require.Equal(t, []nodeID{0, 1, 7, 2}, internal.children)
}

func TestNodeEdges(t *testing.T) {
	n := &node[int]{keys: []int{10, 20, 30}, children: []nodeID{0, 1, 2, 3}}

	k, c := n.popBack()
	require.Equal(t, 30, k)
	require.Equal(t, nodeID(3), c)
	k, c = n.popFront()
	require.Equal(t, 10, k)
	require.Equal(t, nodeID(0), c)
	require.Equal(t, []int{20}, n.keys)
	require.Equal(t, []nodeID{1, 2}, n.children)

	n.pushFront(5, 9)
	n.pushBack(25, 8)
	require.Equal(t, []int{5, 20, 25}, n.keys)
	require.Equal(t, []nodeID{9, 1, 2, 8}, n.children)

	leaf := &node[int]{keys: []int{1, 2, 3}, leaf: true}
	k, c = leaf.popBack()
	require.Equal(t, 3, k)
	require.Equal(t, nilNode, c)
	leaf.pushFront(0, nilNode)
	require.Equal(t, []int{0, 1, 2}, leaf.keys)
	require.Empty(t, leaf.children)
	require.Equal(t, 1, leaf.removeAt(1))
	require.Equal(t, []int{0, 2}, leaf.keys)
}

func TestSplit(t *testing.T) {
	tr, err := New[int](Options{Order: 2})
	require.NoError(t, err)

	// Three leaves chained at one depth; split the middle one.
	left := tr.arena.alloc(true)
	mid := tr.arena.alloc(true)
	right := tr.arena.alloc(true)
	tr.arena.get(left).right = mid
	tr.arena.get(mid).left, tr.arena.get(mid).right = left, right
	tr.arena.get(right).left = mid
	tr.arena.get(mid).keys = []int{1, 2, 3, 4, 5}

	key, next := tr.split(mid, 1)
	require.Equal(t, 3, key)
	require.Equal(t, []int{1, 2}, tr.arena.get(mid).keys)
	require.Equal(t, []int{4, 5}, tr.arena.get(next).keys)
	require.True(t, tr.arena.get(next).leaf)

	require.Equal(t, next, tr.arena.get(mid).right)
	require.Equal(t, mid, tr.arena.get(next).left)
	require.Equal(t, right, tr.arena.get(next).right)
	require.Equal(t, next, tr.arena.get(right).left)
	require.Equal(t, uint64(1), tr.Metrics().Splits)

	// An internal node hands its last order+1 children to the new sibling.
	n := tr.arena.alloc(false)
	tr.arena.get(n).keys = []int{10, 20, 30, 40, 50}
	tr.arena.get(n).children = []nodeID{100, 101, 102, 103, 104, 105}
	key, next = tr.split(n, 0)
	require.Equal(t, 30, key)
	require.Equal(t, []nodeID{100, 101, 102}, tr.arena.get(n).children)
	require.Equal(t, []nodeID{103, 104, 105}, tr.arena.get(next).children)
	require.Equal(t, []int{40, 50}, tr.arena.get(next).keys)
	require.False(t, tr.arena.get(next).leaf)
	require.Equal(t, nilNode, tr.arena.get(next).right)
}

func TestArena(t *testing.T) {
	var a arena[int]
	x := a.alloc(true)
	y := a.alloc(false)
	require.Equal(t, nodeID(0), x)
	require.Equal(t, nodeID(1), y)
	require.Equal(t, 2, a.live)
	require.Equal(t, nilNode, a.get(x).left)
	require.Equal(t, nilNode, a.get(x).right)
	require.True(t, a.get(x).leaf)
	require.False(t, a.get(y).leaf)

	a.release(x)
	require.Equal(t, 1, a.live)
	require.Panics(t, func() { a.release(x) })

	// Released slots are recycled.
	z := a.alloc(true)
	require.Equal(t, x, z)
	require.Empty(t, a.get(z).keys)
	require.Equal(t, 2, a.live)

	a.reset()
	require.Equal(t, 0, a.live)
	require.Equal(t, nodeID(0), a.alloc(true))
}
