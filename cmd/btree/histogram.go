// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
)

const (
	minLatency = 10 * time.Nanosecond
	maxLatency = 10 * time.Second
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
}

// opHistograms holds one latency histogram per benchOp.
type opHistograms [numBenchOps]*hdrhistogram.Histogram

func makeOpHistograms() opHistograms {
	var h opHistograms
	for op := range h {
		h[op] = newHistogram()
	}
	return h
}

// workerLatencies holds the latencies recorded by one worker since the last
// tick.
type workerLatencies struct {
	mu struct {
		sync.Mutex
		hists opHistograms
	}
}

func (w *workerLatencies) record(op benchOp, elapsed time.Duration) {
	elapsed = min(max(elapsed, minLatency), maxLatency)
	w.mu.Lock()
	err := w.mu.hists[op].RecordValue(elapsed.Nanoseconds())
	w.mu.Unlock()
	if err != nil {
		panic(errors.AssertionFailedf("%s: recording latency %s: %v", op, elapsed, err))
	}
}

// swap returns the histograms recorded since the previous swap and starts
// new ones.
func (w *workerLatencies) swap() opHistograms {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := w.mu.hists
	w.mu.hists = makeOpHistograms()
	return h
}

// latencies collects the per-worker histograms of a bench run. Only the
// goroutine reporting progress calls tick.
type latencies struct {
	workers    []*workerLatencies
	cumulative opHistograms
	lastTick   time.Time
}

func newLatencies(workers int) *latencies {
	l := &latencies{
		workers:    make([]*workerLatencies, workers),
		cumulative: makeOpHistograms(),
		lastTick:   time.Now(),
	}
	for i := range l.workers {
		l.workers[i] = &workerLatencies{}
		l.workers[i].mu.hists = makeOpHistograms()
	}
	return l
}

// tick merges every worker's histograms into one per op, adds them to the
// cumulative histograms and returns them along with the time elapsed since
// the previous tick.
func (l *latencies) tick() (opHistograms, time.Duration) {
	now := time.Now()
	interval := makeOpHistograms()
	for _, w := range l.workers {
		h := w.swap()
		for op := range interval {
			interval[op].Merge(h[op])
		}
	}
	for op := range interval {
		l.cumulative[op].Merge(interval[op])
	}
	elapsed := now.Sub(l.lastTick)
	l.lastTick = now
	return interval, elapsed
}
