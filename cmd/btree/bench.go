// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cockroachdb/btree"
	"github.com/cockroachdb/btree/syncbtree"
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tokenbucket"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type benchParams struct {
	concurrency int
	keys        uint64
	ops         int
	readPercent int
	rate        float64
	seed        uint64
}

var benchConfig benchParams

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "run a random insert/delete/find workload",
	Long: `
Runs a random workload of insertions, deletions and finds against a tree
shared by concurrent workers. Writes are split evenly between insertions
and deletions of uniformly random keys. Per-second throughput and latency
are printed while the workload runs, followed by a summary and a plot of
the number of keys in the tree over time.
`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

// rateLimiter shares a token bucket between workers.
type rateLimiter struct {
	mu sync.Mutex
	tb tokenbucket.TokenBucket
}

func newRateLimiter(opsPerSec float64) *rateLimiter {
	l := &rateLimiter{}
	l.tb.Init(tokenbucket.TokensPerSecond(opsPerSec), tokenbucket.Tokens(opsPerSec))
	return l
}

// wait blocks until an operation may proceed.
func (l *rateLimiter) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		ok, d := l.tb.TryToFulfill(1)
		l.mu.Unlock()
		if ok {
			return nil
		}
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type benchOp int8

const (
	benchFind benchOp = iota
	benchInsert
	benchDelete
	numBenchOps
)

var benchOpNames = [numBenchOps]string{
	benchFind:   "find",
	benchInsert: "insert",
	benchDelete: "delete",
}

func (op benchOp) String() string {
	return benchOpNames[op]
}

func (p benchParams) validate() error {
	switch {
	case p.concurrency < 1:
		return errors.Newf("--concurrency (%d) must be >= 1", p.concurrency)
	case p.keys == 0:
		return errors.New("--keys must be > 0")
	case p.readPercent < 0 || p.readPercent > 100:
		return errors.Newf("--read-percent (%d) must be in [0, 100]", p.readPercent)
	case p.rate < 0:
		return errors.Newf("--rate (%g) must be >= 0", p.rate)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := benchConfig
	if err := cfg.validate(); err != nil {
		return err
	}

	opts := btree.Options{Order: order}
	if verbose {
		el := btree.MakeLoggingEventListener(btree.DefaultLogger{})
		opts.EventListener = &el
	}
	t, err := btree.New[uint64](opts)
	if err != nil {
		return err
	}
	s := syncbtree.New(t, syncbtree.Metrics{})
	return runBenchWorkload(context.Background(), cmd.OutOrStdout(), s, cfg)
}

func runBenchWorkload(
	ctx context.Context, w io.Writer, s *syncbtree.Tree[uint64], cfg benchParams,
) error {
	var limiter *rateLimiter
	if cfg.rate > 0 {
		limiter = newRateLimiter(cfg.rate)
	}

	lat := newLatencies(cfg.concurrency)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.concurrency; i++ {
		worker := lat.workers[i]
		ops := cfg.ops / cfg.concurrency
		if i < cfg.ops%cfg.concurrency {
			ops++
		}
		rng := rand.New(rand.NewSource(cfg.seed + uint64(i)))
		g.Go(func() error {
			for j := 0; j < ops; j++ {
				if limiter != nil {
					if err := limiter.wait(ctx); err != nil {
						return err
					}
				}
				op := benchFind
				if rng.Intn(100) >= cfg.readPercent {
					op = benchInsert + benchOp(rng.Intn(2))
				}
				k := rng.Uint64n(cfg.keys)
				start := crtime.NowMono()
				switch op {
				case benchFind:
					s.Find(k)
				case benchInsert:
					s.Insert(k)
				case benchDelete:
					s.Delete(k)
				}
				worker.record(op, start.Elapsed())
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	sampler := time.NewTicker(100 * time.Millisecond)
	defer sampler.Stop()
	start := time.Now()
	var sizes []float64
	var err error
loop:
	for i := 1; ; i++ {
		select {
		case err = <-done:
			break loop
		case <-sampler.C:
		}
		sizes = append(sizes, float64(s.Len()))
		if i%10 != 0 {
			continue
		}
		if i%200 == 10 {
			fmt.Fprintln(w, "_elapsed_____op____ops/sec__p50(µs)__p95(µs)__p99(µs)_pMax(µs)")
		}
		interval, elapsed := lat.tick()
		for op, h := range interval {
			fmt.Fprintf(w, "%8s %6s %10.1f %8.2f %8.2f %8.2f %8.2f\n",
				time.Duration(time.Since(start).Seconds()+0.5)*time.Second,
				benchOp(op),
				float64(h.TotalCount())/elapsed.Seconds(),
				micros(h.ValueAtQuantile(50)),
				micros(h.ValueAtQuantile(95)),
				micros(h.ValueAtQuantile(99)),
				micros(h.ValueAtQuantile(100)))
		}
	}
	elapsed := time.Since(start)
	sizes = append(sizes, float64(s.Len()))
	if err != nil {
		return err
	}
	lat.tick()

	fmt.Fprintln(w)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"op", "ops(total)", "ops/sec(cum)", "avg(µs)", "p50(µs)", "p95(µs)", "p99(µs)", "pMax(µs)"})
	for op, h := range lat.cumulative {
		tbl.Append([]string{
			benchOp(op).String(),
			fmt.Sprintf("%d", h.TotalCount()),
			fmt.Sprintf("%.1f", float64(h.TotalCount())/elapsed.Seconds()),
			fmt.Sprintf("%.2f", h.Mean()/1e3),
			fmt.Sprintf("%.2f", micros(h.ValueAtQuantile(50))),
			fmt.Sprintf("%.2f", micros(h.ValueAtQuantile(95))),
			fmt.Sprintf("%.2f", micros(h.ValueAtQuantile(99))),
			fmt.Sprintf("%.2f", micros(h.ValueAtQuantile(100))),
		})
	}
	tbl.Render()

	fmt.Fprintf(w, "\nkeys over time:\n%s\n\n", asciigraph.Plot(sizes, asciigraph.Height(10)))
	fmt.Fprintf(w, "%s", s.Metrics())
	return s.CheckInvariants()
}

func micros(nanos int64) float64 {
	return float64(nanos) / 1e3
}
