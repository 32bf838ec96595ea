// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/btree"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "insert, find and delete a fixed sequence of keys",
	Long: `
Inserts a fixed sequence of keys, some of them repeated, into an empty tree,
printing the tree after each insertion. Each key is then looked up, a subset
is deleted (printing the tree after each deletion) and every key is looked
up again.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var logger btree.Logger
		if verbose {
			logger = btree.DefaultLogger{}
		}
		return runDemo(cmd.OutOrStdout(), order, logger)
	},
}

var (
	demoInserts = []int{11, 59, 25, 28, 73, 79, 61, 25, 57, 41, 38, 2, 4, 12, 44, 34, 45, 32,
		1, 72, 19, 72, 17, 61, 33, 512, 17, 43, 54, 44, 6, 11, 17, 28, 35}
	demoDeletes = []int{45, 72, 1, 41, 12, 33, 79}
)

// runDemo runs the demo with a tree of the given order, writing to w. If
// logger is non-nil, structural events are logged to it.
func runDemo(w io.Writer, order int, logger btree.Logger) error {
	opts := btree.Options{Order: order}
	if logger != nil {
		el := btree.MakeLoggingEventListener(logger)
		opts.Logger = logger
		opts.EventListener = &el
	}
	t, err := btree.New[int](opts)
	if err != nil {
		return err
	}

	find := func() {
		for _, k := range demoInserts {
			fmt.Fprintf(w, "find %d: %t\n", k, t.Find(k))
		}
	}

	for _, k := range demoInserts {
		if !t.Insert(k) {
			fmt.Fprintf(w, "insert %d: duplicate\n", k)
			continue
		}
		fmt.Fprintf(w, "insert %d:\n%s", k, t)
	}
	find()
	for _, k := range demoDeletes {
		if !t.Delete(k) {
			fmt.Fprintf(w, "delete %d: not found\n", k)
			continue
		}
		fmt.Fprintf(w, "delete %d:\n%s", k, t)
	}
	find()
	fmt.Fprintf(w, "%s", t.Metrics())
	return t.CheckInvariants()
}
