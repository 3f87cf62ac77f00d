// Package writer implements geomedea's writer pipeline (C5): accumulate
// features into pages, flush finished pages to a scratch spool, and on
// Close build the packed R-tree and emit header -> index -> feature pages
// to the destination writer.
package writer

import (
	"fmt"
	"io"
	"sort"

	"github.com/michaelkirk/geomedea/compress"
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/feature"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/header"
	"github.com/michaelkirk/geomedea/internal/options"
	"github.com/michaelkirk/geomedea/internal/pool"
	"github.com/michaelkirk/geomedea/page"
	"github.com/michaelkirk/geomedea/property"
	"github.com/michaelkirk/geomedea/rtree"
)

// State is a Writer's position in its Open -> PageAccumulating -> Closing ->
// Done lifecycle. Transitions are linear; a Writer is not safe for
// concurrent use.
type State uint8

const (
	StateOpen State = iota
	StatePageAccumulating
	StateClosing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StatePageAccumulating:
		return "PageAccumulating"
	case StateClosing:
		return "Closing"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Writer accumulates features and, on Close, emits a complete geomedea file
// to out.
type Writer struct {
	out    io.Writer
	schema property.Schema
	codec  compress.Codec
	cfg    *config

	state State
	spool *spool

	pageBuf          *pool.ByteBuffer
	pageFeatureCount int
	pageBounds       coord.Bounds

	totalBounds  coord.Bounds
	featureCount uint64
	pageTable    []rtree.LeafEntry
}

// New creates a Writer that will serialize features under schema to out once
// Close is called.
func New(out io.Writer, schema property.Schema, opts ...Option) (*Writer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	codec, err := compress.ForKind(cfg.compression)
	if err != nil {
		return nil, err
	}
	sp, err := newSpool()
	if err != nil {
		return nil, err
	}
	return &Writer{
		out:         out,
		schema:      schema,
		codec:       codec,
		cfg:         cfg,
		state:       StateOpen,
		spool:       sp,
		pageBuf:     pool.GetPageBuffer(),
		pageBounds:  coord.Empty(),
		totalBounds: coord.Empty(),
	}, nil
}

// State reports the Writer's current lifecycle state.
func (w *Writer) State() State {
	return w.state
}

// AddFeature validates f against the schema, flushes the current page first
// if f would push it over budget, then encodes f into the (possibly now
// empty) page. This keeps every page at or under budget except when a
// single feature exceeds it on its own, in which case that feature gets a
// dedicated page rather than being bundled with whatever preceded it. A
// validation failure leaves the Writer's state untouched and does not
// consume f.
func (w *Writer) AddFeature(f feature.Feature) error {
	if w.state == StateClosing || w.state == StateDone {
		return errs.ErrClosed
	}

	encoded, err := feature.Encode(nil, w.schema, f)
	if err != nil {
		return err
	}

	if w.pageFeatureCount > 0 && w.pageBuf.Len()+len(encoded) > w.cfg.pageBudget {
		if err := w.flush(); err != nil {
			return err
		}
	}

	if w.cfg.rejectOversizePages && w.pageBuf.Len() == 0 && len(encoded) > w.cfg.pageBudget {
		return fmt.Errorf("%w: feature is %d bytes, budget is %d", errs.ErrPageOverflow, len(encoded), w.cfg.pageBudget)
	}

	w.pageBuf.MustWrite(encoded)
	w.pageFeatureCount++
	w.featureCount++
	w.pageBounds = coord.Union(w.pageBounds, f.Bounds)
	w.totalBounds = coord.Union(w.totalBounds, f.Bounds)
	w.state = StatePageAccumulating

	if w.pageBuf.Len() > w.cfg.pageBudget {
		return w.flush()
	}
	return nil
}

// flush compresses and frames the current page, appends it to the spool,
// and records its (bounds, offset, length) in the page table.
func (w *Writer) flush() error {
	if w.pageFeatureCount == 0 {
		return nil
	}
	pageBytes, err := page.Encode(w.codec, w.pageFeatureCount, w.pageBuf.Bytes())
	if err != nil {
		return err
	}
	offset, err := w.spool.writePage(pageBytes)
	if err != nil {
		return err
	}
	w.pageTable = append(w.pageTable, rtree.LeafEntry{
		Bounds:     w.pageBounds,
		PageOffset: offset,
		PageLength: uint64(len(pageBytes)),
	})

	w.pageBuf.Reset()
	w.pageFeatureCount = 0
	w.pageBounds = coord.Empty()
	return nil
}

// Close flushes any trailing page, builds the packed R-tree over the page
// table, and writes header, index, and feature pages (in that order) to
// out. Close always consumes the Writer: a second call returns
// errs.ErrClosed. Closing without having written any feature returns
// errs.ErrEmptyFile and writes nothing.
func (w *Writer) Close() (err error) {
	if w.state == StateClosing || w.state == StateDone {
		return errs.ErrClosed
	}
	w.state = StateClosing
	defer func() {
		w.spool.cleanup()
		pool.PutPageBuffer(w.pageBuf)
		w.state = StateDone
	}()

	if err := w.flush(); err != nil {
		return err
	}
	if len(w.pageTable) == 0 {
		return errs.ErrEmptyFile
	}

	// Leaves are ordered by Hilbert value of page bounds centroid, ties
	// broken by arrival order (SliceStable preserves pageTable's order,
	// which is page-write order).
	sorted := make([]rtree.LeafEntry, len(w.pageTable))
	copy(sorted, w.pageTable)
	sort.SliceStable(sorted, func(i, j int) bool {
		return coord.Hilbert(sorted[i].Bounds, format.HilbertOrder) < coord.Hilbert(sorted[j].Bounds, format.HilbertOrder)
	})

	provisionalTree := rtree.Build(sorted, format.BranchingFactor)
	indexLen := len(provisionalTree.Encode(nil))

	baseHeader := header.Header{
		Version:         format.Version,
		Compression:     w.cfg.compression,
		HilbertOrder:    format.HilbertOrder,
		BranchingFactor: format.BranchingFactor,
		Schema:          w.schema,
		TotalBounds:     w.totalBounds,
		PageCount:       uint64(len(sorted)),
		FeatureCount:    w.featureCount,
		IndexNodeCount:  uint64(provisionalTree.NodeCount()),
	}
	headerLen := len(baseHeader.Encode(nil))

	indexByteOffset := uint64(headerLen)
	featureByteOffset := uint64(headerLen) + uint64(indexLen)

	finalLeaves := make([]rtree.LeafEntry, len(sorted))
	for i, l := range sorted {
		finalLeaves[i] = rtree.LeafEntry{
			Bounds:     l.Bounds,
			PageOffset: l.PageOffset + featureByteOffset,
			PageLength: l.PageLength,
		}
	}
	finalTree := rtree.Build(finalLeaves, format.BranchingFactor)

	finalHeader := baseHeader
	finalHeader.IndexByteOffset = indexByteOffset
	finalHeader.FeatureByteOffset = featureByteOffset

	headerBytes := finalHeader.Encode(nil)
	if len(headerBytes) != headerLen {
		return fmt.Errorf("%w: header length changed after offsets were filled in", errs.ErrUnsupportedVersion)
	}
	indexBytes := finalTree.Encode(nil)

	if _, ioErr := w.out.Write(headerBytes); ioErr != nil {
		return fmt.Errorf("%w: writing header: %s", errs.ErrIO, ioErr)
	}
	if _, ioErr := w.out.Write(indexBytes); ioErr != nil {
		return fmt.Errorf("%w: writing index: %s", errs.ErrIO, ioErr)
	}
	if ioErr := w.spool.copyTo(w.out); ioErr != nil {
		return ioErr
	}
	return nil
}
