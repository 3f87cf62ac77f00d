package rtree

import (
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/internal/wire"
)

const (
	internalEntrySize = 16 + 8     // bounds + first_child_index
	leafEntrySize     = 16 + 8 + 8 // bounds + page_offset + page_length
)

// Encode appends t's on-disk form to buf: every internal node (root level
// first) followed by every leaf node, matching the level-order-from-root
// layout spec §4.4 and §6 describe. Node widths differ by kind (internal
// nodes omit the page length field), so a reader must already know the
// internal/leaf boundary — it gets that from NodeCount and LeafCount,
// recomputing level sizes the same way Build did.
func (t *Tree) Encode(buf []byte) []byte {
	for _, n := range t.Internal {
		buf = encodeBounds(buf, n.Bounds)
		buf = wire.AppendUint64(buf, n.FirstChild)
	}
	for _, l := range t.Leaves {
		buf = encodeBounds(buf, l.Bounds)
		buf = wire.AppendUint64(buf, l.PageOffset)
		buf = wire.AppendUint64(buf, l.PageLength)
	}
	return buf
}

// Decode reconstructs a Tree from its on-disk form. leafCount and
// branchingFactor come from the file header (page_count and the header's
// branching factor byte); nodeCount is the header's index_node_count.
func Decode(data []byte, leafCount int, branchingFactor uint8, nodeCount int) (*Tree, error) {
	if leafCount == 0 {
		return &Tree{BranchingFactor: branchingFactor}, nil
	}
	totalInternal := nodeCount - leafCount
	if totalInternal < 0 {
		return nil, errs.ErrUnsupportedVersion
	}
	need := totalInternal*internalEntrySize + leafCount*leafEntrySize
	if need > len(data) {
		return nil, errs.ErrTruncated
	}

	childCounts := rebuildChildCounts(leafCount, int(branchingFactor))
	if len(childCounts) != totalInternal {
		return nil, errs.ErrUnsupportedVersion
	}

	off := 0
	internal := make([]InternalEntry, totalInternal)
	for i := range internal {
		b, err := decodeBounds(data[off:])
		if err != nil {
			return nil, err
		}
		off += 16
		firstChild, err := wire.ReadUint64(data[off:])
		if err != nil {
			return nil, err
		}
		off += 8
		internal[i] = InternalEntry{Bounds: b, FirstChild: firstChild, ChildCount: uint32(childCounts[i])}
	}

	leaves := make([]LeafEntry, leafCount)
	for i := range leaves {
		b, err := decodeBounds(data[off:])
		if err != nil {
			return nil, err
		}
		off += 16
		pageOffset, err := wire.ReadUint64(data[off:])
		if err != nil {
			return nil, err
		}
		off += 8
		pageLength, err := wire.ReadUint64(data[off:])
		if err != nil {
			return nil, err
		}
		off += 8
		leaves[i] = LeafEntry{Bounds: b, PageOffset: pageOffset, PageLength: pageLength}
	}

	return &Tree{BranchingFactor: branchingFactor, LeafCount: leafCount, Internal: internal, Leaves: leaves}, nil
}

// rebuildChildCounts recomputes, level by level bottom-up, how many nodes
// are in each level, then expands that into a flat per-node child-count
// list in root-first order.
func rebuildChildCounts(leafCount, b int) []int {
	sizes := []int{leafCount} // bottom-up: leaves first
	for sizes[len(sizes)-1] > 1 {
		prev := sizes[len(sizes)-1]
		sizes = append(sizes, (prev+b-1)/b)
	}
	// sizes is now leaves..root; reverse to root-first.
	for i, j := 0, len(sizes)-1; i < j; i, j = i+1, j-1 {
		sizes[i], sizes[j] = sizes[j], sizes[i]
	}

	var counts []int
	for levelIdx := 0; levelIdx < len(sizes)-1; levelIdx++ {
		levelSize := sizes[levelIdx]
		childLevelSize := sizes[levelIdx+1]
		for j := 0; j < levelSize; j++ {
			firstChildLocal := j * b
			c := b
			if firstChildLocal+c > childLevelSize {
				c = childLevelSize - firstChildLocal
			}
			counts = append(counts, c)
		}
	}
	return counts
}

func encodeBounds(buf []byte, b coord.Bounds) []byte {
	buf = wire.AppendInt32(buf, b.MinLng)
	buf = wire.AppendInt32(buf, b.MinLat)
	buf = wire.AppendInt32(buf, b.MaxLng)
	buf = wire.AppendInt32(buf, b.MaxLat)
	return buf
}

func decodeBounds(data []byte) (coord.Bounds, error) {
	if len(data) < 16 {
		return coord.Bounds{}, errs.ErrTruncated
	}
	minLng, _ := wire.ReadInt32(data[0:4])
	minLat, _ := wire.ReadInt32(data[4:8])
	maxLng, _ := wire.ReadInt32(data[8:12])
	maxLat, _ := wire.ReadInt32(data[12:16])
	return coord.Bounds{MinLng: minLng, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat}, nil
}
