// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants exposes whether expensive self-checks are compiled in.
// Build with the "invariants" tag (or run under the race detector) to have
// every mutating tree operation verify the tree's structure afterwards.
package invariants
