// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package btree provides an in-memory B-tree of unique, ordered keys.
//
// The tree is parameterized by its order o (minimum degree): every node other
// than the root holds between o and 2*o keys. Insertion splits overflowing
// nodes bottom-up, growing a new root when the old one splits. Deletion
// replaces a key found in an internal node by its in-order predecessor and
// removes that from a leaf; a node that falls below o keys borrows a key from
// a sibling with keys to spare, or else merges with a sibling, and the root is
// replaced by its only child once it runs out of keys.
//
// Each node is linked to its left and right neighbours at the same depth, for
// every depth of the tree. Nodes are held in an arena and addressed by
// index; only parent to child edges own a node.
//
// A BTree is not safe for concurrent use; see package syncbtree for a
// synchronized wrapper.
//
//	t, err := btree.New[int](btree.Options{Order: 2})
//	if err != nil {
//		return err
//	}
//	t.Insert(11)
//	t.Insert(59)
//	t.Find(11)   // true
//	t.Delete(59) // true
//	t.Delete(59) // false
package btree
