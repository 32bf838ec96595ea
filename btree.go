// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	stdcmp "cmp"

	"github.com/cockroachdb/btree/internal/invariants"
	"github.com/cockroachdb/errors"
)

// BTree is an in-memory B-tree of unique keys.
//
// Every node other than the root holds between Order and 2*Order keys. Nodes
// at each depth, leaves and internal nodes alike, are linked to their left
// and right neighbours.
//
// A BTree is not safe for concurrent use. Callers that share a tree between
// goroutines must serialize all operations, for example through
// syncbtree.Tree.
type BTree[K any] struct {
	opts  Options
	order int
	cmp   func(a, b K) int

	arena  arena[K]
	root   nodeID
	count  int
	height int

	// metrics only holds the cumulative counters; the shape fields are
	// filled in by Metrics.
	metrics Metrics
}

// New returns an empty tree of naturally ordered keys.
func New[K stdcmp.Ordered](opts Options) (*BTree[K], error) {
	return NewWithCompare(stdcmp.Compare[K], opts)
}

// NewWithCompare returns an empty tree whose keys are ordered by compare,
// which must define a total order and return a negative number, zero or a
// positive number when a is less than, equal to or greater than b.
func NewWithCompare[K any](compare func(a, b K) int, opts Options) (*BTree[K], error) {
	if compare == nil {
		return nil, errors.WithStack(ErrNilCompare)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.EnsureDefaults()
	t := &BTree[K]{
		opts:  opts,
		order: opts.Order,
		cmp:   compare,
	}
	t.root = t.arena.alloc(true /* leaf */)
	t.height = 1
	return t, nil
}

// Order returns the minimum degree the tree was built with.
func (t *BTree[K]) Order() int {
	return t.order
}

// Len returns the number of keys in the tree.
func (t *BTree[K]) Len() int {
	return t.count
}

// Height returns the number of levels in the tree. An empty tree has height
// 1.
func (t *BTree[K]) Height() int {
	return t.height
}

// Find returns true if k is in the tree.
func (t *BTree[K]) Find(k K) bool {
	id := t.root
	for {
		n := t.arena.get(id)
		if n.containsKey(t.cmp, k) {
			return true
		}
		if n.leaf {
			return false
		}
		id = n.children[n.upperIndex(t.cmp, k)]
	}
}

// Insert adds k to the tree. It returns false, leaving the tree untouched, if
// k is already present.
func (t *BTree[K]) Insert(k K) bool {
	out := t.insert(t.root, k, 0)
	switch out.kind {
	case insertRejected:
		return false
	case insertSplit:
		// The old root was split in two: promote a new root above both
		// halves. This is the only way the tree grows taller.
		rootID := t.arena.alloc(false /* leaf */)
		root := t.arena.get(rootID)
		root.keys = append(root.keys, out.key)
		root.children = append(root.children, t.root, out.sibling)
		t.root = rootID
		t.height++
		t.metrics.RootGrowths++
		t.opts.EventListener.HeightChanged(HeightChangeInfo{Height: t.height, Grew: true})
	}
	t.count++
	t.maybeCheckInvariants()
	return true
}

// Delete removes k from the tree. It returns false, leaving the tree
// untouched, if k is not present.
func (t *BTree[K]) Delete(k K) bool {
	out := t.delete(t.root, k, siblings{}, 0)
	if out.kind == deleteNotFound {
		return false
	}
	if invariants.Enabled && out.kind != deleteRemoved {
		panic(errors.AssertionFailedf("btree: root asked its parent to rebalance (outcome %d)", out.kind))
	}
	t.count--
	if root := t.arena.get(t.root); len(root.keys) == 0 && !root.leaf {
		// The root's last two children were merged: the merged node becomes
		// the root.
		old := t.root
		t.root = root.children[0]
		t.arena.release(old)
		t.height--
		t.metrics.RootShrinks++
		t.opts.EventListener.HeightChanged(HeightChangeInfo{Height: t.height, Grew: false})
	}
	t.maybeCheckInvariants()
	return true
}

// Clear removes all keys from the tree, releasing every node. The cumulative
// counters reported by Metrics are preserved.
func (t *BTree[K]) Clear() {
	t.release(t.root)
	t.arena.reset()
	t.root = t.arena.alloc(true /* leaf */)
	t.count = 0
	t.height = 1
	t.maybeCheckInvariants()
}

// release frees the subtree rooted at id, children before parents.
func (t *BTree[K]) release(id nodeID) {
	for _, c := range t.arena.get(id).children {
		t.release(c)
	}
	t.arena.release(id)
}

// Metrics returns the tree's current shape and cumulative operation counts.
func (t *BTree[K]) Metrics() Metrics {
	m := t.metrics
	m.Keys = t.count
	m.Nodes = t.arena.live
	m.Height = t.height
	return m
}

func (t *BTree[K]) maybeCheckInvariants() {
	if !invariants.Enabled {
		return
	}
	if err := t.CheckInvariants(); err != nil {
		t.opts.Logger.Fatalf("%+v\n%s", err, t)
	}
}
