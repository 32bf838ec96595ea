// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultOrder is the order used by the command-line tools when none is
// specified. The library itself never picks an order on the caller's behalf.
const DefaultOrder = 2

var (
	// ErrInvalidOrder is returned when constructing a tree with an order
	// below 1.
	ErrInvalidOrder = errors.New("btree: invalid order")
	// ErrNilCompare is returned when constructing a tree without a
	// comparison function.
	ErrNilCompare = errors.New("btree: nil compare function")
)

// Options holds the parameters used to construct a BTree.
type Options struct {
	// Order is the minimum degree of the tree. Every node other than the root
	// holds between Order and 2*Order keys. Order must be at least 1 and is
	// fixed for the lifetime of the tree.
	Order int

	// Logger used to report invariant violations in builds with the
	// invariants tag.
	Logger Logger

	// EventListener receives notifications of structural changes (splits,
	// merges, borrows and height changes). A nil EventListener, or nil
	// callbacks within it, are ignored.
	EventListener *EventListener
}

// EnsureDefaults fills in default values for unset options. Order is left
// untouched: an unset order is a validation error, not a default.
func (o *Options) EnsureDefaults() {
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.EventListener == nil {
		o.EventListener = &EventListener{}
	}
	o.EventListener.EnsureDefaults()
}

// Validate verifies that the options are mutually consistent. It may be
// called before or after EnsureDefaults.
func (o *Options) Validate() error {
	var buf strings.Builder
	if o.Order < 1 {
		fmt.Fprintf(&buf, "Order (%d) must be >= 1\n", o.Order)
	}
	if buf.Len() == 0 {
		return nil
	}
	return errors.Mark(errors.Newf("btree: %s", strings.TrimSuffix(buf.String(), "\n")), ErrInvalidOrder)
}
