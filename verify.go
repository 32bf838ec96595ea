// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import "github.com/cockroachdb/errors"

// bound is an optional exclusive key bound.
type bound[K any] struct {
	key K
	ok  bool
}

// verifier accumulates state while walking the tree in CheckInvariants.
type verifier[K any] struct {
	t *BTree[K]
	// levels[d] lists the nodes at depth d from left to right, in the order
	// a depth-first walk visits them.
	levels    [][]nodeID
	keys      int
	leafDepth int
}

// CheckInvariants verifies the tree's structural invariants and returns an
// assertion failure describing the first violation found:
//
//   - keys within a node are strictly increasing;
//   - internal nodes hold one more child than keys, leaves hold none;
//   - nodes other than the root hold between Order and 2*Order keys, and an
//     internal root holds at least one key;
//   - every key lies strictly between the separators bounding its subtree;
//   - all leaves are at the same depth, which matches Height;
//   - at every depth, sibling links form one doubly-linked chain visiting
//     the nodes of that depth from left to right;
//   - Len and the number of live nodes match the contents of the tree.
//
// It runs in time linear in the size of the tree and is intended for tests
// and debugging.
func (t *BTree[K]) CheckInvariants() error {
	v := verifier[K]{t: t, leafDepth: -1}
	if err := v.checkNode(t.root, 0, bound[K]{}, bound[K]{}); err != nil {
		return err
	}
	if v.leafDepth+1 != t.height {
		return errors.AssertionFailedf("btree: height is %d but leaves are at depth %d", t.height, v.leafDepth)
	}
	if v.keys != t.count {
		return errors.AssertionFailedf("btree: Len is %d but the tree holds %d keys", t.count, v.keys)
	}
	nodes := 0
	for depth, level := range v.levels {
		nodes += len(level)
		if err := v.checkChain(depth, level); err != nil {
			return err
		}
	}
	if nodes != t.arena.live {
		return errors.AssertionFailedf("btree: arena holds %d live nodes but %d are reachable", t.arena.live, nodes)
	}
	return nil
}

func (v *verifier[K]) checkNode(id nodeID, depth int, lo, hi bound[K]) error {
	t := v.t
	n := t.arena.get(id)
	if depth == len(v.levels) {
		v.levels = append(v.levels, nil)
	}
	v.levels[depth] = append(v.levels[depth], id)
	v.keys += len(n.keys)

	if len(n.keys) > 2*t.order {
		return errors.AssertionFailedf("btree: node %d holds %d keys, more than %d", id, len(n.keys), 2*t.order)
	}
	if id != t.root && len(n.keys) < t.order {
		return errors.AssertionFailedf("btree: node %d holds %d keys, fewer than %d", id, len(n.keys), t.order)
	}
	for i := range n.keys {
		if i > 0 && t.cmp(n.keys[i-1], n.keys[i]) >= 0 {
			return errors.AssertionFailedf("btree: node %d: keys %v and %v out of order", id, n.keys[i-1], n.keys[i])
		}
		if lo.ok && t.cmp(n.keys[i], lo.key) <= 0 {
			return errors.AssertionFailedf("btree: node %d: key %v not above separator %v", id, n.keys[i], lo.key)
		}
		if hi.ok && t.cmp(n.keys[i], hi.key) >= 0 {
			return errors.AssertionFailedf("btree: node %d: key %v not below separator %v", id, n.keys[i], hi.key)
		}
	}

	if n.leaf {
		if len(n.children) != 0 {
			return errors.AssertionFailedf("btree: leaf %d has %d children", id, len(n.children))
		}
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.AssertionFailedf("btree: leaf %d at depth %d, expected depth %d", id, depth, v.leafDepth)
		}
		return nil
	}
	if len(n.keys) == 0 {
		return errors.AssertionFailedf("btree: internal node %d holds no keys", id)
	}
	if len(n.children) != len(n.keys)+1 {
		return errors.AssertionFailedf("btree: internal node %d holds %d keys and %d children", id, len(n.keys), len(n.children))
	}
	for i, c := range n.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = bound[K]{key: n.keys[i-1], ok: true}
		}
		if i < len(n.keys) {
			chi = bound[K]{key: n.keys[i], ok: true}
		}
		if err := v.checkNode(c, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}

// checkChain verifies that the sibling links of the nodes at one depth match
// the left-to-right order in which the depth-first walk found them.
func (v *verifier[K]) checkChain(depth int, level []nodeID) error {
	for i, id := range level {
		n := v.t.arena.get(id)
		wantLeft, wantRight := nilNode, nilNode
		if i > 0 {
			wantLeft = level[i-1]
		}
		if i+1 < len(level) {
			wantRight = level[i+1]
		}
		if n.left != wantLeft || n.right != wantRight {
			return errors.AssertionFailedf("btree: node %d at depth %d links to (%d, %d), expected (%d, %d)",
				id, depth, n.left, n.right, wantLeft, wantRight)
		}
	}
	return nil
}
