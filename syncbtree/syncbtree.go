// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package syncbtree provides a B-tree that may be shared between goroutines.
package syncbtree

import (
	"sync"

	"github.com/cockroachdb/btree"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/redact"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds optional latency histograms for tree operations. Latencies
// are observed in nanoseconds and include the time spent waiting for the
// lock. Nil histograms are skipped.
type Metrics struct {
	InsertLatency prometheus.Histogram
	DeleteLatency prometheus.Histogram
	FindLatency   prometheus.Histogram
}

// Tree wraps a btree.BTree with a RWMutex. Insert, Delete and Clear take the
// lock exclusively; the read-only operations share it.
type Tree[K any] struct {
	metrics Metrics
	mu      struct {
		sync.RWMutex
		tree *btree.BTree[K]
	}
}

// New returns a Tree that owns t. The caller must not use t directly once it
// has been handed over.
func New[K any](t *btree.BTree[K], metrics Metrics) *Tree[K] {
	s := &Tree[K]{metrics: metrics}
	s.mu.tree = t
	return s
}

func observe(h prometheus.Histogram, start crtime.Mono) {
	if h != nil {
		h.Observe(float64(start.Elapsed()))
	}
}

// Insert adds k to the tree. See btree.BTree.Insert.
func (s *Tree[K]) Insert(k K) bool {
	start := crtime.NowMono()
	s.mu.Lock()
	defer s.mu.Unlock()
	defer observe(s.metrics.InsertLatency, start)
	return s.mu.tree.Insert(k)
}

// Delete removes k from the tree. See btree.BTree.Delete.
func (s *Tree[K]) Delete(k K) bool {
	start := crtime.NowMono()
	s.mu.Lock()
	defer s.mu.Unlock()
	defer observe(s.metrics.DeleteLatency, start)
	return s.mu.tree.Delete(k)
}

// Find returns true if k is in the tree.
func (s *Tree[K]) Find(k K) bool {
	start := crtime.NowMono()
	s.mu.RLock()
	defer s.mu.RUnlock()
	defer observe(s.metrics.FindLatency, start)
	return s.mu.tree.Find(k)
}

// Clear removes all keys from the tree.
func (s *Tree[K]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mu.tree.Clear()
}

// Len returns the number of keys in the tree.
func (s *Tree[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.tree.Len()
}

// Metrics returns the underlying tree's metrics.
func (s *Tree[K]) Metrics() btree.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.tree.Metrics()
}

// CheckInvariants verifies the underlying tree's invariants.
func (s *Tree[K]) CheckInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.tree.CheckInvariants()
}

// String renders the underlying tree.
func (s *Tree[K]) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s *Tree[K]) SafeFormat(w redact.SafePrinter, r rune) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mu.tree.SafeFormat(w, r)
}
