// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	"strings"

	"github.com/cockroachdb/redact"
)

// String returns an indented rendering of the tree with one node per line.
// See SafeFormat.
func (t *BTree[K]) String() string {
	return redact.StringWithoutMarkers(t)
}

// SafeFormat implements redact.SafeFormatter. It renders the tree one node
// per line in depth-first order, each node's keys separated by '|', with
// nodes at depth d indented by 3*d spaces:
//
//	[28]
//	   └─[11|25]
//	   └─[59|73|79]
//
// Keys are printed with fmt's default formatting and marked as unsafe.
func (t *BTree[K]) SafeFormat(w redact.SafePrinter, _ rune) {
	t.formatNode(w, t.root, 0)
}

func (t *BTree[K]) formatNode(w redact.SafePrinter, id nodeID, depth int) {
	n := t.arena.get(id)
	if depth > 0 {
		w.SafeString(redact.SafeString(strings.Repeat(" ", 3*depth)))
		w.SafeString("└─")
	}
	w.SafeString("[")
	for i := range n.keys {
		if i > 0 {
			w.SafeString("|")
		}
		w.Print(n.keys[i])
	}
	w.SafeString("]\n")
	for _, c := range n.children {
		t.formatNode(w, c, depth+1)
	}
}
