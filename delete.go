// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	"slices"

	"github.com/cockroachdb/btree/internal/invariants"
	"github.com/cockroachdb/errors"
)

type deleteKind int8

const (
	// deleteNotFound reports that the key is absent. Nothing was mutated.
	deleteNotFound deleteKind = iota
	// deleteRemoved reports that the key was removed and the subtree needs
	// nothing from its parent.
	deleteRemoved
	// deleteBorrowed reports that the subtree's root fell below the minimum
	// and took a key (and, for internal nodes, a child) from the sibling in
	// direction dir. The parent must rotate the key through the separator.
	deleteBorrowed
	// deleteMerge reports that the subtree's root fell below the minimum
	// and no sibling can spare a key. The parent must merge it with the
	// sibling in direction dir.
	deleteMerge
)

// deleteOutcome is the result of deleting from a subtree.
type deleteOutcome[K any] struct {
	kind deleteKind
	// dir is set for deleteBorrowed and deleteMerge.
	dir Direction
	// key and child are set for deleteBorrowed: the key removed from the
	// sibling and, if the sibling is internal, its edge child.
	key   K
	child nodeID
}

// siblings records which of a node's chain neighbours share its parent. A
// neighbour under a different parent (a cousin) cannot donate or absorb keys
// because the parent holds no separator between the two.
type siblings struct {
	left, right bool
}

// delete removes k from the subtree rooted at id. sib describes id's
// siblings; it is zero for the root.
func (t *BTree[K]) delete(id nodeID, k K, sib siblings, depth int) deleteOutcome[K] {
	n := t.arena.get(id)
	i, found := n.lowerIndex(t.cmp, k)
	if n.leaf {
		if !found {
			return deleteOutcome[K]{kind: deleteNotFound}
		}
		n.removeAt(i)
		return t.rebalance(id, sib)
	}
	if found {
		// Replace k by its in-order predecessor, the largest key of the
		// subtree left of k, and go on to delete the predecessor from its
		// leaf. children[i] is the subtree left of keys[i], including when i
		// is the last key.
		pred := t.maxKey(n.children[i])
		n.keys[i] = pred
		k = pred
	}
	// If k was not found, i is the upper index of k: the child whose range
	// contains k.
	out := t.delete(n.children[i], k, siblings{left: i > 0, right: i < len(n.keys)}, depth+1)
	switch out.kind {
	case deleteNotFound, deleteRemoved:
		return out
	case deleteBorrowed:
		t.rotate(id, i, out, depth+1)
		return deleteOutcome[K]{kind: deleteRemoved}
	case deleteMerge:
		sep := i
		if out.dir == Left {
			sep = i - 1
		}
		t.merge(id, sep, out.dir, depth+1)
		return t.rebalance(id, sib)
	default:
		panic(errors.AssertionFailedf("btree: unknown delete outcome %d", out.kind))
	}
}

// maxKey returns the largest key of the subtree rooted at id, found in its
// rightmost leaf.
func (t *BTree[K]) maxKey(id nodeID) K {
	n := t.arena.get(id)
	for !n.leaf {
		n = t.arena.get(n.children[len(n.children)-1])
	}
	return n.keys[len(n.keys)-1]
}

// rebalance decides what the parent of id must do after id lost a key. A node
// that still holds at least order keys, or that has no siblings (the root),
// needs nothing. Otherwise it borrows from the left sibling, then the right
// sibling, if either holds more than order keys, and falls back to asking
// for a merge with the left sibling, then the right one.
func (t *BTree[K]) rebalance(id nodeID, sib siblings) deleteOutcome[K] {
	n := t.arena.get(id)
	if len(n.keys) >= t.order || (!sib.left && !sib.right) {
		return deleteOutcome[K]{kind: deleteRemoved}
	}
	if invariants.Enabled {
		if (sib.left && n.left == nilNode) || (sib.right && n.right == nilNode) {
			panic(errors.AssertionFailedf("btree: node %d: sibling link missing", id))
		}
	}
	if sib.left {
		if l := t.arena.get(n.left); len(l.keys) > t.order {
			key, child := l.popBack()
			return deleteOutcome[K]{kind: deleteBorrowed, dir: Left, key: key, child: child}
		}
	}
	if sib.right {
		if r := t.arena.get(n.right); len(r.keys) > t.order {
			key, child := r.popFront()
			return deleteOutcome[K]{kind: deleteBorrowed, dir: Right, key: key, child: child}
		}
	}
	if sib.left {
		return deleteOutcome[K]{kind: deleteMerge, dir: Left}
	}
	return deleteOutcome[K]{kind: deleteMerge, dir: Right}
}

// rotate completes a borrow by children[i] of the node id. The separator
// between the child and the donating sibling moves down into the child and
// the donated key takes its place.
//
// Borrowing from the left sibling:
//
//	          +-----------+                       +-----------+
//	          |     y     |                       |     x     |
//	          +----/-\----+                       +----/-\----+
//	              /   \                               /   \
//	             v     v              =>             v     v
//	+-----------+     +-----------+     +-----------+     +-----------+
//	|         x |     |           |     |           |     | y         |
//	+----------\+     +-----------+     +-----------+     +/----------+
//	            \                                         /
//	             a                                       a
//
// The left sibling's last key x and last child a were already removed from
// it by rebalance and are carried in out. Borrowing from the right sibling is
// the mirror image.
func (t *BTree[K]) rotate(id nodeID, i int, out deleteOutcome[K], depth int) {
	p := t.arena.get(id)
	child := t.arena.get(p.children[i])
	switch out.dir {
	case Left:
		child.pushFront(p.keys[i-1], out.child)
		p.keys[i-1] = out.key
	case Right:
		child.pushBack(p.keys[i], out.child)
		p.keys[i] = out.key
	}
	t.metrics.Borrows++
	t.opts.EventListener.KeyBorrowed(BorrowInfo{Depth: depth, Leaf: child.leaf, Direction: out.dir})
}

// merge combines children[sep] and children[sep+1] of the node id, along with
// the separator keys[sep] between them, into children[sep]. children[sep+1] is
// released. dir is the side on which the deficient child found its partner
// and is only used for event reporting.
//
//	          +-----------+
//	          |   u y v   |
//	          +----/-\----+
//	              /   \
//	             v     v
//	+-----------+     +-----------+
//	|         x |     | z         |
//	+-----------+     +-----------+
//
//	After:
//
//	          +-----------+
//	          |    u v    |
//	          +-----|-----+
//	                |
//	                v
//	          +-----------+
//	          |   x y z   |
//	          +-----------+
func (t *BTree[K]) merge(id nodeID, sep int, dir Direction, depth int) {
	p := t.arena.get(id)
	leftID, rightID := p.children[sep], p.children[sep+1]
	left, right := t.arena.get(leftID), t.arena.get(rightID)

	left.keys = append(left.keys, p.keys[sep])
	left.keys = append(left.keys, right.keys...)
	if !left.leaf {
		// Re-thread the chain one level down across the junction.
		last, first := left.children[len(left.children)-1], right.children[0]
		t.arena.get(last).right = first
		t.arena.get(first).left = last
		left.children = append(left.children, right.children...)
	}
	left.right = right.right
	if right.right != nilNode {
		t.arena.get(right.right).left = leftID
	}

	p.keys = slices.Delete(p.keys, sep, sep+1)
	p.children = slices.Delete(p.children, sep+1, sep+2)
	t.arena.release(rightID)

	t.metrics.Merges++
	t.opts.EventListener.NodesMerged(MergeInfo{
		Depth:     depth,
		Leaf:      left.leaf,
		Direction: dir,
		Keys:      len(left.keys),
	})
}
