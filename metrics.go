// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// Metrics holds a snapshot of a tree's shape and the cumulative count of
// structural operations performed on it.
type Metrics struct {
	// Keys is the number of keys stored.
	Keys int
	// Nodes is the number of live nodes, including the root.
	Nodes int
	// Height is the number of levels; a tree with a single leaf root has
	// height 1.
	Height int

	// The counters below are cumulative over the tree's lifetime and survive
	// Clear.

	// Splits counts node splits, including splits of the root.
	Splits uint64
	// Merges counts sibling merges.
	Merges uint64
	// Borrows counts keys borrowed from a sibling through the parent.
	Borrows uint64
	// RootGrowths counts promotions of a new root.
	RootGrowths uint64
	// RootShrinks counts roots replaced by their only child.
	RootShrinks uint64
}

func (m Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("keys: %s  nodes: %s  height: %d\n",
		crhumanize.Count(uint64(m.Keys), crhumanize.Compact),
		crhumanize.Count(uint64(m.Nodes), crhumanize.Compact),
		redact.Safe(m.Height))
	w.Printf("splits: %s  merges: %s  borrows: %s\n",
		crhumanize.Count(m.Splits, crhumanize.Compact),
		crhumanize.Count(m.Merges, crhumanize.Compact),
		crhumanize.Count(m.Borrows, crhumanize.Compact))
	w.Printf("root growths: %d  root shrinks: %d\n",
		redact.Safe(m.RootGrowths), redact.Safe(m.RootShrinks))
}
