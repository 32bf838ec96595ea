// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package btree

import (
	"fmt"
	randv1 "math/rand"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/crlib/crstrings"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/metamorphic"
	"github.com/cockroachdb/swiss"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
)

func parseKeys(t *testing.T, input string) []int {
	var keys []int
	for _, line := range crstrings.Lines(input) {
		for _, f := range strings.Fields(line) {
			k, err := strconv.Atoi(f)
			require.NoError(t, err)
			keys = append(keys, k)
		}
	}
	return keys
}

// recordingEventListener returns an EventListener that appends one line per
// event to buf.
func recordingEventListener(buf *strings.Builder) *EventListener {
	return &EventListener{
		NodeSplit:     func(info SplitInfo) { fmt.Fprintf(buf, "%s\n", info) },
		NodesMerged:   func(info MergeInfo) { fmt.Fprintf(buf, "%s\n", info) },
		KeyBorrowed:   func(info BorrowInfo) { fmt.Fprintf(buf, "%s\n", info) },
		HeightChanged: func(info HeightChangeInfo) { fmt.Fprintf(buf, "%s\n", info) },
	}
}

func formatKeys[K any](n *node[K]) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range n.keys {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprint(&b, k)
	}
	b.WriteByte(']')
	return b.String()
}

// formatChains renders the sibling chain of every depth, found by walking
// right from the leftmost node of that depth.
func formatChains[K any](t *BTree[K]) string {
	var b strings.Builder
	first := t.root
	for depth := 0; ; depth++ {
		fmt.Fprintf(&b, "depth %d:", depth)
		for id := first; id != nilNode; id = t.arena.get(id).right {
			fmt.Fprintf(&b, " %s", formatKeys(t.arena.get(id)))
		}
		b.WriteByte('\n')
		n := t.arena.get(first)
		if n.leaf {
			return b.String()
		}
		first = n.children[0]
	}
}

func formatMetrics(m Metrics) string {
	return fmt.Sprintf("keys=%d nodes=%d height=%d splits=%d merges=%d borrows=%d growths=%d shrinks=%d",
		m.Keys, m.Nodes, m.Height, m.Splits, m.Merges, m.Borrows, m.RootGrowths, m.RootShrinks)
}

// inorder returns the tree's keys in sorted order.
func inorder[K any](t *BTree[K]) []K {
	var out []K
	var walk func(id nodeID)
	walk = func(id nodeID) {
		n := t.arena.get(id)
		for i := range n.keys {
			if !n.leaf {
				walk(n.children[i])
			}
			out = append(out, n.keys[i])
		}
		if !n.leaf {
			walk(n.children[len(n.children)-1])
		}
	}
	walk(t.root)
	return out
}

func TestBTree(t *testing.T) {
	datadriven.Walk(t, "testdata/btree", func(t *testing.T, path string) {
		var tr *BTree[int]
		var events strings.Builder
		datadriven.RunTest(t, path, func(t *testing.T, td *datadriven.TestData) string {
			switch td.Cmd {
			case "new":
				var order int
				td.ScanArgs(t, "order", &order)
				events.Reset()
				var err error
				tr, err = New[int](Options{Order: order, EventListener: recordingEventListener(&events)})
				require.NoError(t, err)
				return ""

			case "insert", "delete":
				events.Reset()
				var buf strings.Builder
				for _, k := range parseKeys(t, td.Input) {
					if td.Cmd == "insert" && !tr.Insert(k) {
						fmt.Fprintf(&buf, "rejected: %d\n", k)
					}
					if td.Cmd == "delete" && !tr.Delete(k) {
						fmt.Fprintf(&buf, "absent: %d\n", k)
					}
					require.NoError(t, tr.CheckInvariants())
				}
				buf.WriteString(tr.String())
				return buf.String()

			case "find":
				var buf strings.Builder
				for _, k := range parseKeys(t, td.Input) {
					fmt.Fprintf(&buf, "%d: %t\n", k, tr.Find(k))
				}
				return buf.String()

			case "clear":
				events.Reset()
				tr.Clear()
				require.NoError(t, tr.CheckInvariants())
				return tr.String()

			case "events":
				return events.String()

			case "chains":
				return formatChains(tr)

			case "metrics":
				return formatMetrics(tr.Metrics())

			default:
				return fmt.Sprintf("unknown command: %s", td.Cmd)
			}
		})
	})
}

func TestBTreeRandom(t *testing.T) {
	for _, order := range []int{1, 2, 3, 8} {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			seed := time.Now().UnixNano()
			t.Logf("seed: %d", seed)
			rng := rand.New(rand.NewPCG(0, uint64(seed)))

			tr, err := New[int](Options{Order: order})
			require.NoError(t, err)
			var oracle swiss.Map[int, struct{}]
			oracle.Init(16)
			const keySpace = 512

			sorted := func() []int {
				var keys []int
				for k := 0; k < keySpace; k++ {
					if _, ok := oracle.Get(k); ok {
						keys = append(keys, k)
					}
				}
				return keys
			}

			nextOp := metamorphic.Weighted[func()]{
				{Item: func() {
					k := rng.IntN(keySpace)
					_, present := oracle.Get(k)
					require.Equal(t, !present, tr.Insert(k), "insert %d", k)
					oracle.Put(k, struct{}{})
				}, Weight: 6},
				{Item: func() {
					k := rng.IntN(keySpace)
					_, present := oracle.Get(k)
					require.Equal(t, present, tr.Delete(k), "delete %d", k)
					oracle.Delete(k)
				}, Weight: 5},
				{Item: func() {
					k := rng.IntN(keySpace)
					_, present := oracle.Get(k)
					require.Equal(t, present, tr.Find(k), "find %d", k)
				}, Weight: 3},
			}.RandomDeck(randv1.New(randv1.NewSource(rng.Int64())))

			for i := 0; i < 5000; i++ {
				nextOp()()
				if err := tr.CheckInvariants(); err != nil {
					t.Fatalf("op %d: %+v\n%s", i, err, tr)
				}
				require.Equal(t, oracle.Len(), tr.Len())
				if i%250 == 0 {
					require.Equal(t, sorted(), inorder(tr))
				}
			}
			require.Equal(t, sorted(), inorder(tr))

			// Drain the tree in random order; it must end as an empty leaf root.
			keys := sorted()
			rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
			for _, k := range keys {
				require.True(t, tr.Delete(k))
				require.NoError(t, tr.CheckInvariants())
			}
			require.Equal(t, 0, tr.Len())
			require.Equal(t, 1, tr.Height())
			require.Equal(t, 1, tr.Metrics().Nodes)
		})
	}
}

// requireUnchanged fails the test if the dump of tr differs from before.
func requireUnchanged(t *testing.T, before string, tr *BTree[int]) {
	t.Helper()
	after := tr.String()
	if xxhash.Sum64String(before) == xxhash.Sum64String(after) {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	require.NoError(t, err)
	t.Fatalf("tree changed:\n%s", diff)
}

func TestBTreeNoOps(t *testing.T) {
	tr, err := New[int](Options{Order: 2})
	require.NoError(t, err)
	for k := 0; k < 200; k += 2 {
		require.True(t, tr.Insert(k))
	}
	m := tr.Metrics()

	for k := 0; k < 200; k += 2 {
		before := tr.String()
		require.False(t, tr.Insert(k))
		requireUnchanged(t, before, tr)
	}
	for k := -1; k < 201; k += 2 {
		before := tr.String()
		require.False(t, tr.Delete(k))
		requireUnchanged(t, before, tr)
		require.False(t, tr.Find(k))
	}
	require.Equal(t, m, tr.Metrics())
	require.Equal(t, 100, tr.Len())
}

func TestBTreeEmpty(t *testing.T) {
	tr, err := New[int](Options{Order: 1})
	require.NoError(t, err)
	require.False(t, tr.Find(1))
	require.False(t, tr.Delete(1))
	require.Equal(t, "[]\n", tr.String())
	require.Equal(t, 0, tr.Len())
	require.Equal(t, 1, tr.Height())
	require.Equal(t, 1, tr.Order())
	require.NoError(t, tr.CheckInvariants())

	tr.Clear()
	require.Equal(t, "[]\n", tr.String())
	require.NoError(t, tr.CheckInvariants())
}

// TestBTreeDemoSequence replays the sequence exercised by `btree demo`,
// which mixes duplicate insertions into a growing tree.
func TestBTreeDemoSequence(t *testing.T) {
	inserts := []int{11, 59, 25, 28, 73, 79, 61, 25, 57, 41, 38, 2, 4, 12, 44, 34, 45, 32,
		1, 72, 19, 72, 17, 61, 33, 512, 17, 43, 54, 44, 6, 11, 17, 28, 35}
	deletes := []int{45, 72, 1, 41, 12, 33, 79}

	tr, err := New[int](Options{Order: 2})
	require.NoError(t, err)
	present := map[int]bool{}
	for _, k := range inserts {
		require.Equal(t, !present[k], tr.Insert(k), "insert %d", k)
		present[k] = true
		require.NoError(t, tr.CheckInvariants())
	}
	require.Equal(t, len(present), tr.Len())
	for _, k := range inserts {
		require.True(t, tr.Find(k))
	}
	for _, k := range deletes {
		require.True(t, tr.Delete(k), "delete %d", k)
		delete(present, k)
		require.NoError(t, tr.CheckInvariants())
	}
	for _, k := range inserts {
		require.Equal(t, present[k], tr.Find(k), "find %d", k)
	}
	var want []int
	for k := range present {
		want = append(want, k)
	}
	slices.Sort(want)
	require.Equal(t, want, inorder(tr))
}

func TestBTreeCustomCompare(t *testing.T) {
	// Strings ordered by length, then lexically in reverse.
	cmp := func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(b, a)
	}
	tr, err := NewWithCompare(cmp, Options{Order: 1})
	require.NoError(t, err)
	for _, s := range []string{"b", "aa", "a", "ccc", "c", "bb", "zz"} {
		require.True(t, tr.Insert(s))
		require.NoError(t, tr.CheckInvariants())
	}
	require.False(t, tr.Insert("bb"))
	require.Equal(t, []string{"c", "b", "a", "zz", "bb", "aa", "ccc"}, inorder(tr))
	require.True(t, tr.Delete("zz"))
	require.False(t, tr.Find("zz"))
	require.True(t, tr.Find("ccc"))
	require.NoError(t, tr.CheckInvariants())
}

func TestCheckInvariantsDetectsCorruption(t *testing.T) {
	newTree := func() *BTree[int] {
		tr, err := New[int](Options{Order: 1})
		require.NoError(t, err)
		for k := 1; k <= 7; k++ {
			require.True(t, tr.Insert(k))
		}
		return tr
	}

	t.Run("order", func(t *testing.T) {
		tr := newTree()
		root := tr.arena.get(tr.root)
		root.keys[0] = 100
		require.ErrorContains(t, tr.CheckInvariants(), "not above separator")
	})
	t.Run("chain", func(t *testing.T) {
		tr := newTree()
		left := tr.arena.get(tr.arena.get(tr.root).children[0])
		left.right = nilNode
		require.ErrorContains(t, tr.CheckInvariants(), "links to")
	})
	t.Run("count", func(t *testing.T) {
		tr := newTree()
		tr.count++
		require.ErrorContains(t, tr.CheckInvariants(), "Len is 8")
	})
	t.Run("height", func(t *testing.T) {
		tr := newTree()
		tr.height++
		require.ErrorContains(t, tr.CheckInvariants(), "height is 4")
	})
}
