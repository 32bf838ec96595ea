// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	"fmt"

	"github.com/cockroachdb/btree/internal/invariants"
)

// nodeID addresses a node within an arena. IDs are stable for the lifetime of
// the node: growing the arena never renumbers existing nodes.
type nodeID int32

// nilNode is the nodeID used for an absent sibling or child.
const nilNode nodeID = -1

// arena owns every node of a tree. Parent to child edges are the only owning
// references; sibling links are plain IDs that are looked up through the
// arena and are never followed once the node they name has been released.
//
// Released slots are recycled through a free list, so a released ID may be
// handed out again by a later alloc.
type arena[K any] struct {
	nodes []*node[K]
	free  []nodeID
	live  int
}

// alloc returns the ID of a fresh, empty node with no siblings.
func (a *arena[K]) alloc(leaf bool) nodeID {
	n := &node[K]{leaf: leaf, left: nilNode, right: nilNode}
	a.live++
	if len(a.free) > 0 {
		id := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

// get returns the node addressed by id. It panics if id has been released.
func (a *arena[K]) get(id nodeID) *node[K] {
	n := a.nodes[id]
	if invariants.Enabled && n == nil {
		panic(fmt.Sprintf("btree: use of released node %d", id))
	}
	return n
}

// release frees the slot addressed by id. The node's contents are dropped so
// that keys held by it can be garbage collected.
func (a *arena[K]) release(id nodeID) {
	if a.nodes[id] == nil {
		panic(fmt.Sprintf("btree: node %d released twice", id))
	}
	a.nodes[id] = nil
	a.free = append(a.free, id)
	a.live--
}

// reset drops every node, live or free.
func (a *arena[K]) reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:0]
	a.free = a.free[:0]
	a.live = 0
}
