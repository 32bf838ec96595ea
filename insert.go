// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

type insertKind int8

const (
	// insertRejected reports that the key was already present. Nothing was
	// mutated at any level.
	insertRejected insertKind = iota
	// insertInserted reports that the key was stored and the subtree needs
	// nothing from its parent.
	insertInserted
	// insertSplit reports that the key was stored and the subtree's root
	// overflowed and was split. The parent must adopt the promoted key and
	// the new right sibling.
	insertSplit
)

// insertOutcome is the result of inserting into a subtree.
type insertOutcome[K any] struct {
	kind insertKind
	// key and sibling are only set for insertSplit. sibling must become the
	// child immediately to the right of key in the parent.
	key     K
	sibling nodeID
}

// insert adds k to the subtree rooted at id. depth is the depth of id and is
// only used for event reporting.
func (t *BTree[K]) insert(id nodeID, k K, depth int) insertOutcome[K] {
	n := t.arena.get(id)
	i, found := n.lowerIndex(t.cmp, k)
	if found {
		return insertOutcome[K]{kind: insertRejected}
	}
	if n.leaf {
		n.insertLocal(t.cmp, k, nilNode)
	} else {
		// k is not a key of n, so i is also the upper index of k: the child
		// whose range contains k.
		out := t.insert(n.children[i], k, depth+1)
		if out.kind != insertSplit {
			return out
		}
		n.insertLocal(t.cmp, out.key, out.sibling)
	}
	if !n.overflowed(t.order) {
		return insertOutcome[K]{kind: insertInserted}
	}
	key, sibling := t.split(id, depth)
	return insertOutcome[K]{kind: insertSplit, key: key, sibling: sibling}
}

// split divides an overflowed node of 2*order+1 keys. The node keeps its
// first order keys (and order+1 children), a new right sibling receives the
// last order keys (and order+1 children), and the middle key is returned for
// promotion into the parent.
//
//	Before:
//	                       +-----------+
//	                n      |   x y z   |
//	                       +--/-/-\-\--+
//
//	After:
//	                       +-----------+
//	                       |     y     |  n's parent
//	                       +----/-\----+
//	                           /   \
//	                          v     v
//	              +-----------+     +-----------+
//	            n |         x | <-> | z         | next
//	              +-----------+     +-----------+
//
// next is spliced into the sibling chain between n and n's old right
// neighbour. The chain one level down needs no change: the children keep
// their left-to-right order, only their parent changes.
func (t *BTree[K]) split(id nodeID, depth int) (K, nodeID) {
	nextID := t.arena.alloc(t.arena.get(id).leaf)
	n, next := t.arena.get(id), t.arena.get(nextID)
	o := t.order

	out := n.keys[o]
	next.keys = append(make([]K, 0, 2*o+1), n.keys[o+1:]...)
	clear(n.keys[o:])
	n.keys = n.keys[:o]
	if !n.leaf {
		next.children = append(make([]nodeID, 0, 2*o+2), n.children[o+1:]...)
		n.children = n.children[:o+1]
	}

	next.left = id
	next.right = n.right
	if n.right != nilNode {
		t.arena.get(n.right).left = nextID
	}
	n.right = nextID

	t.metrics.Splits++
	t.opts.EventListener.NodeSplit(SplitInfo{
		Depth:     depth,
		Leaf:      n.leaf,
		LeftKeys:  len(n.keys),
		RightKeys: len(next.keys),
	})
	return out, nextID
}
