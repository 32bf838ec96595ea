// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import "github.com/cockroachdb/redact"

// Direction identifies which sibling donated a key or absorbed a node.
type Direction int8

const (
	// Left is the sibling holding smaller keys.
	Left Direction = iota
	// Right is the sibling holding larger keys.
	Right
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// SafeValue implements redact.SafeValue.
func (Direction) SafeValue() {}

func nodeKind(leaf bool) redact.SafeString {
	if leaf {
		return "leaf"
	}
	return "internal"
}

// SplitInfo contains the info for a node split event.
type SplitInfo struct {
	// Depth of the split node; the root is at depth 0.
	Depth int
	// Leaf is true if the split node is a leaf.
	Leaf bool
	// LeftKeys and RightKeys are the key counts of the two halves. The
	// promoted key is counted in neither.
	LeftKeys, RightKeys int
}

func (i SplitInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i SplitInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("split %s node at depth %d into %d+%d keys",
		nodeKind(i.Leaf), redact.Safe(i.Depth), redact.Safe(i.LeftKeys), redact.Safe(i.RightKeys))
}

// MergeInfo contains the info for a node merge event.
type MergeInfo struct {
	// Depth of the merged nodes.
	Depth int
	// Leaf is true if the merged nodes are leaves.
	Leaf bool
	// Direction is the side of the deficient node on which the sibling it
	// was merged with lies.
	Direction Direction
	// Keys is the key count of the resulting node.
	Keys int
}

func (i MergeInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i MergeInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("merged %s node at depth %d with its %s sibling into %d keys",
		nodeKind(i.Leaf), redact.Safe(i.Depth), i.Direction, redact.Safe(i.Keys))
}

// BorrowInfo contains the info for a borrow event.
type BorrowInfo struct {
	// Depth of the borrowing node.
	Depth int
	// Leaf is true if the borrowing node is a leaf.
	Leaf bool
	// Direction is the side of the sibling that donated the key.
	Direction Direction
}

func (i BorrowInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i BorrowInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s node at depth %d borrowed from its %s sibling",
		nodeKind(i.Leaf), redact.Safe(i.Depth), i.Direction)
}

// HeightChangeInfo contains the info for a root growth or shrink.
type HeightChangeInfo struct {
	// Height is the height of the tree after the change. A tree with a single
	// leaf root has height 1.
	Height int
	// Grew is true if a new root was promoted, false if the root was replaced
	// by its only child.
	Grew bool
}

func (i HeightChangeInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i HeightChangeInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	if i.Grew {
		w.Printf("root split; height grew to %d", redact.Safe(i.Height))
		return
	}
	w.Printf("root collapsed; height shrank to %d", redact.Safe(i.Height))
}

// EventListener contains a set of functions that will be invoked when the
// tree changes shape. Callbacks run synchronously within the mutating call and
// must not access the tree.
type EventListener struct {
	// NodeSplit is invoked after an overflowed node has been split.
	NodeSplit func(SplitInfo)

	// NodesMerged is invoked after two siblings and their separator have been
	// merged into one node.
	NodesMerged func(MergeInfo)

	// KeyBorrowed is invoked after a deficient node borrowed a key from a
	// sibling through their parent.
	KeyBorrowed func(BorrowInfo)

	// HeightChanged is invoked after the root was split or collapsed.
	HeightChanged func(HeightChangeInfo)
}

// EnsureDefaults ensures that all callbacks are non-nil.
func (l *EventListener) EnsureDefaults() {
	if l.NodeSplit == nil {
		l.NodeSplit = func(info SplitInfo) {}
	}
	if l.NodesMerged == nil {
		l.NodesMerged = func(info MergeInfo) {}
	}
	if l.KeyBorrowed == nil {
		l.KeyBorrowed = func(info BorrowInfo) {}
	}
	if l.HeightChanged == nil {
		l.HeightChanged = func(info HeightChangeInfo) {}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the specified logger.
func MakeLoggingEventListener(logger Logger) EventListener {
	if logger == nil {
		logger = DefaultLogger{}
	}

	return EventListener{
		NodeSplit: func(info SplitInfo) {
			logger.Infof("%s", info)
		},
		NodesMerged: func(info MergeInfo) {
			logger.Infof("%s", info)
		},
		KeyBorrowed: func(info BorrowInfo) {
			logger.Infof("%s", info)
		},
		HeightChanged: func(info HeightChangeInfo) {
			logger.Infof("%s", info)
		},
	}
}

// TeeEventListener wraps two EventListeners, forwarding all events to both.
func TeeEventListener(a, b EventListener) EventListener {
	a.EnsureDefaults()
	b.EnsureDefaults()
	return EventListener{
		NodeSplit: func(info SplitInfo) {
			a.NodeSplit(info)
			b.NodeSplit(info)
		},
		NodesMerged: func(info MergeInfo) {
			a.NodesMerged(info)
			b.NodesMerged(info)
		},
		KeyBorrowed: func(info BorrowInfo) {
			a.KeyBorrowed(info)
			b.KeyBorrowed(info)
		},
		HeightChanged: func(info HeightChangeInfo) {
			a.HeightChanged(info)
			b.HeightChanged(info)
		},
	}
}
