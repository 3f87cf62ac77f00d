// Package rtree implements geomedea's packed Hilbert R-tree (C4): a static
// spatial index built once, bottom-up, from a Hilbert-sorted list of page
// bounds, and queried breadth-first for bounds intersection.
//
// Unlike a dynamic R-tree (github.com/dhconnelly/rtreego, used elsewhere in
// the examples pack for a mutable nautical-chart index), this tree is never
// mutated after Build: the whole point of packing bottom-up from
// pre-sorted leaves is a denser, allocation-free node array, at the cost of
// never supporting insert/delete.
package rtree

import (
	"sort"

	"github.com/michaelkirk/geomedea/coord"
)

// LeafEntry is one page's index entry: its bounds and its byte location in
// the feature-pages region.
type LeafEntry struct {
	Bounds     coord.Bounds
	PageOffset uint64
	PageLength uint64
}

// InternalEntry is one non-leaf index entry: its bounds (the union of its
// children's) and the global index of its first child. Children of a node
// are contiguous, so the node's child count is everything from FirstChild
// up to the next node's FirstChild (or the end of the child level).
type InternalEntry struct {
	Bounds     coord.Bounds
	FirstChild uint64
	ChildCount uint32
}

// Tree is a built, queryable packed Hilbert R-tree. Internal holds every
// non-leaf node across all levels, root first; Leaves holds every leaf node
// in the same Hilbert order the caller built it from.
//
// A Tree with LeafCount == 0 is the empty-tree sentinel (spec: zero pages
// means the index is absent, or present with a node count of 0); Query
// always returns nothing for it.
type Tree struct {
	BranchingFactor uint8
	LeafCount       int
	Internal        []InternalEntry
	Leaves          []LeafEntry
}

// Build packs leaves (already sorted by Hilbert value of page bounds
// centroid, per C4 step 1) into a Tree with the given branching factor.
func Build(leaves []LeafEntry, branchingFactor uint8) *Tree {
	if len(leaves) == 0 {
		return &Tree{BranchingFactor: branchingFactor}
	}
	b := int(branchingFactor)

	// Build level bounds bottom-up: level 0 is the leaves, each subsequent
	// level groups the previous one into runs of b.
	levelsBottomUp := [][]coord.Bounds{boundsOf(leaves)}
	for len(levelsBottomUp[len(levelsBottomUp)-1]) > 1 {
		prev := levelsBottomUp[len(levelsBottomUp)-1]
		levelsBottomUp = append(levelsBottomUp, groupBounds(prev, b))
	}

	numLevels := len(levelsBottomUp)
	sizes := make([]int, numLevels) // root-first
	for i := 0; i < numLevels; i++ {
		sizes[i] = len(levelsBottomUp[numLevels-1-i])
	}
	starts := make([]int, numLevels)
	for i := 1; i < numLevels; i++ {
		starts[i] = starts[i-1] + sizes[i-1]
	}
	totalInternal := starts[numLevels-1] // leaf level's start == count of everything above it

	internal := make([]InternalEntry, 0, totalInternal)
	for levelIdx := 0; levelIdx < numLevels-1; levelIdx++ {
		level := levelsBottomUp[numLevels-1-levelIdx]
		childLevelSize := sizes[levelIdx+1]
		for j, bounds := range level {
			firstChildLocal := j * b
			childCount := b
			if firstChildLocal+childCount > childLevelSize {
				childCount = childLevelSize - firstChildLocal
			}
			internal = append(internal, InternalEntry{
				Bounds:     bounds,
				FirstChild: uint64(starts[levelIdx+1] + firstChildLocal),
				ChildCount: uint32(childCount),
			})
		}
	}

	return &Tree{
		BranchingFactor: branchingFactor,
		LeafCount:       len(leaves),
		Internal:        internal,
		Leaves:          leaves,
	}
}

// NodeCount is the total number of nodes (internal + leaf), recorded in the
// file header as index_node_count.
func (t *Tree) NodeCount() int {
	return len(t.Internal) + len(t.Leaves)
}

// Query returns every leaf whose bounds intersect q, in ascending
// PageOffset order (spec §4.4: the range planner needs monotonically
// ordered offsets to coalesce runs; this implementation collects hits
// breadth-first, then sorts).
func (t *Tree) Query(q coord.Bounds) []LeafEntry {
	if t.LeafCount == 0 {
		return nil
	}
	if len(t.Internal) == 0 {
		if coord.Intersects(t.Leaves[0].Bounds, q) {
			return []LeafEntry{t.Leaves[0]}
		}
		return nil
	}

	totalInternal := len(t.Internal)
	var hits []LeafEntry
	queue := []uint64{0} // root is always global index 0
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		if int(idx) >= totalInternal {
			leaf := t.Leaves[int(idx)-totalInternal]
			if coord.Intersects(leaf.Bounds, q) {
				hits = append(hits, leaf)
			}
			continue
		}
		node := t.Internal[idx]
		if !coord.Intersects(node.Bounds, q) {
			continue
		}
		for c := uint64(0); c < uint64(node.ChildCount); c++ {
			queue = append(queue, node.FirstChild+c)
		}
	}

	sortLeavesByOffset(hits)
	return hits
}

func boundsOf(leaves []LeafEntry) []coord.Bounds {
	out := make([]coord.Bounds, len(leaves))
	for i, l := range leaves {
		out[i] = l.Bounds
	}
	return out
}

func groupBounds(prev []coord.Bounds, b int) []coord.Bounds {
	n := (len(prev) + b - 1) / b
	out := make([]coord.Bounds, n)
	for i := range out {
		u := coord.Empty()
		end := (i + 1) * b
		if end > len(prev) {
			end = len(prev)
		}
		for _, child := range prev[i*b : end] {
			u = coord.Union(u, child)
		}
		out[i] = u
	}
	return out
}

func sortLeavesByOffset(leaves []LeafEntry) {
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].PageOffset < leaves[j].PageOffset })
}
