// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import "slices"

// node is the storage unit of the tree. Internal nodes hold exactly
// len(keys)+1 children; leaves hold none.
//
// Every node, leaf or internal, is linked to its neighbours at the same depth
// through left and right. The chain at a given depth spans the whole tree, so
// a node's neighbour may hang off a different parent (a cousin). Only the
// parent knows whether a neighbour is also a sibling.
type node[K any] struct {
	keys     []K
	children []nodeID
	leaf     bool

	left, right nodeID
}

// lowerIndex returns the index of the first key >= k, and whether the key at
// that index equals k.
func (n *node[K]) lowerIndex(cmp func(a, b K) int, k K) (index int, found bool) {
	// Logic copied from sort.Search.
	i, j := 0, len(n.keys)
	for i < j {
		h := int(uint(i+j) >> 1) // avoid overflow when computing h
		// i ≤ h < j
		if cmp(n.keys[h], k) < 0 {
			i = h + 1
		} else {
			j = h
		}
	}
	return i, i < len(n.keys) && cmp(n.keys[i], k) == 0
}

// upperIndex returns the index of the first key > k. For an internal node it
// is the index of the child whose subtree would contain k.
func (n *node[K]) upperIndex(cmp func(a, b K) int, k K) int {
	i, j := 0, len(n.keys)
	for i < j {
		h := int(uint(i+j) >> 1)
		if cmp(n.keys[h], k) <= 0 {
			i = h + 1
		} else {
			j = h
		}
	}
	return i
}

// containsKey returns true if k is one of the node's keys.
func (n *node[K]) containsKey(cmp func(a, b K) int, k K) bool {
	_, found := n.lowerIndex(cmp, k)
	return found
}

// insertLocal inserts k at its sorted position. If child is not nilNode it
// becomes the child immediately to the right of k. The caller guarantees k is
// not already present.
func (n *node[K]) insertLocal(cmp func(a, b K) int, k K, child nodeID) {
	i, _ := n.lowerIndex(cmp, k)
	n.keys = slices.Insert(n.keys, i, k)
	if child != nilNode {
		n.children = slices.Insert(n.children, i+1, child)
	}
}

// overflowed returns true if the node holds one key more than the maximum
// allowed for the given order.
func (n *node[K]) overflowed(order int) bool {
	return len(n.keys) == 2*order+1
}

// removeAt removes the key at index i. Only used on leaves.
func (n *node[K]) removeAt(i int) K {
	out := n.keys[i]
	n.keys = slices.Delete(n.keys, i, i+1)
	return out
}

// popBack removes and returns the last key, along with the last child if the
// node is internal.
func (n *node[K]) popBack() (K, nodeID) {
	out := n.keys[len(n.keys)-1]
	n.keys = slices.Delete(n.keys, len(n.keys)-1, len(n.keys))
	if n.leaf {
		return out, nilNode
	}
	child := n.children[len(n.children)-1]
	n.children = slices.Delete(n.children, len(n.children)-1, len(n.children))
	return out, child
}

// popFront removes and returns the first key, along with the first child if
// the node is internal.
func (n *node[K]) popFront() (K, nodeID) {
	out := n.keys[0]
	n.keys = slices.Delete(n.keys, 0, 1)
	if n.leaf {
		return out, nilNode
	}
	child := n.children[0]
	n.children = slices.Delete(n.children, 0, 1)
	return out, child
}

// pushFront prepends k, and child as the new first child of an internal node.
func (n *node[K]) pushFront(k K, child nodeID) {
	n.keys = slices.Insert(n.keys, 0, k)
	if !n.leaf {
		n.children = slices.Insert(n.children, 0, child)
	}
}

// pushBack appends k, and child as the new last child of an internal node.
func (n *node[K]) pushBack(k K, child nodeID) {
	n.keys = append(n.keys, k)
	if !n.leaf {
		n.children = append(n.children, child)
	}
}
