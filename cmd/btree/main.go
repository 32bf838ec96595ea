// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log"
	"os"

	"github.com/cockroachdb/btree"
	"github.com/spf13/cobra"
)

var (
	order   int
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "btree [command] (flags)",
	Short: "btree demonstration/benchmarking tool",
	Long: `
Exercises an in-memory B-tree whose nodes are linked to their neighbours at
every depth. "demo" replays a fixed sequence of operations and prints the
tree after each change; "bench" measures a concurrent random workload.
`,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		demoCmd,
		benchCmd,
	)

	for _, cmd := range []*cobra.Command{demoCmd, benchCmd} {
		cmd.Flags().IntVarP(
			&order, "order", "o", btree.DefaultOrder, "minimum degree of the tree")
		cmd.Flags().BoolVarP(
			&verbose, "verbose", "v", false, "enable verbose event logging")
	}

	benchCmd.Flags().IntVarP(
		&benchConfig.concurrency, "concurrency", "c", 1, "number of concurrent workers")
	benchCmd.Flags().Uint64Var(
		&benchConfig.keys, "keys", 100000, "size of the key space")
	benchCmd.Flags().IntVarP(
		&benchConfig.ops, "ops", "n", 1000000, "total number of operations")
	benchCmd.Flags().IntVar(
		&benchConfig.readPercent, "read-percent", 50,
		"Percent (0-100) of operations that are finds")
	benchCmd.Flags().Float64Var(
		&benchConfig.rate, "rate", 0, "maximum operations per second (0 means unlimited)")
	benchCmd.Flags().Uint64Var(
		&benchConfig.seed, "seed", 1, "random seed")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
