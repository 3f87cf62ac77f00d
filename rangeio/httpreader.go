package rangeio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"

	"github.com/michaelkirk/geomedea/compress"
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/feature"
	"github.com/michaelkirk/geomedea/header"
	"github.com/michaelkirk/geomedea/internal/options"
	"github.com/michaelkirk/geomedea/internal/wire"
	"github.com/michaelkirk/geomedea/rtree"
)

// initialHeaderProbe mirrors localio's probe size: most headers fit in one
// range request, and the loop below doubles on a truncated decode.
const initialHeaderProbe = 4096

// HTTPReader is a remote geomedea file accessed entirely through
// RangeFetcher: header and index are fetched once and held in memory (same
// as localio.File), feature pages are fetched on demand per selection.
type HTTPReader struct {
	fetcher RangeFetcher
	header  header.Header
	tree    *rtree.Tree
	codec   compress.Codec
	cfg     *config
}

// Open fetches and decodes header and index from fetcher.
func Open(ctx context.Context, fetcher RangeFetcher, opts ...Option) (*HTTPReader, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	h, err := readRemoteHeader(ctx, fetcher)
	if err != nil {
		return nil, err
	}

	indexLen := int64(h.FeatureByteOffset) - int64(h.IndexByteOffset)
	if indexLen < 0 {
		return nil, fmt.Errorf("%w: feature offset precedes index offset", errs.ErrUnsupportedVersion)
	}
	var indexBuf []byte
	if indexLen > 0 {
		body, err := fetcher.FetchRange(ctx, h.IndexByteOffset, uint64(indexLen))
		if err != nil {
			return nil, err
		}
		indexBuf, err = io.ReadAll(body)
		_ = body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading index: %s", errs.ErrIO, err)
		}
	}
	tree, err := rtree.Decode(indexBuf, int(h.PageCount), h.BranchingFactor, int(h.IndexNodeCount))
	if err != nil {
		return nil, err
	}
	codec, err := compress.ForKind(h.Compression)
	if err != nil {
		return nil, err
	}

	return &HTTPReader{fetcher: fetcher, header: h, tree: tree, codec: codec, cfg: cfg}, nil
}

func readRemoteHeader(ctx context.Context, fetcher RangeFetcher) (header.Header, error) {
	size := uint64(initialHeaderProbe)
	for {
		body, err := fetcher.FetchRange(ctx, 0, size)
		if err != nil {
			return header.Header{}, err
		}
		buf, err := io.ReadAll(body)
		_ = body.Close()
		if err != nil {
			return header.Header{}, fmt.Errorf("%w: %s", errs.ErrIO, err)
		}

		h, _, decodeErr := header.Decode(buf)
		if decodeErr == nil {
			return h, nil
		}
		if !errors.Is(decodeErr, errs.ErrTruncated) {
			return header.Header{}, decodeErr
		}
		if uint64(len(buf)) < size {
			return header.Header{}, fmt.Errorf("%w: file too short for header", errs.ErrTruncated)
		}
		size *= 2
	}
}

// Header returns the decoded file header.
func (h *HTTPReader) Header() header.Header {
	return h.header
}

// SelectAll streams every feature in the file, in page-offset order. The
// index leaves are in Hilbert order, so they are sorted by offset first, as
// Plan requires.
func (h *HTTPReader) SelectAll(ctx context.Context) iter.Seq2[feature.Feature, error] {
	leaves := append([]rtree.LeafEntry(nil), h.tree.Leaves...)
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].PageOffset < leaves[j].PageOffset })
	return h.selectLeaves(ctx, leaves, nil)
}

// SelectBbox queries the index for pages intersecting q, then streams every
// feature from a hit page whose own bounds intersect q.
func (h *HTTPReader) SelectBbox(ctx context.Context, q coord.Bounds) iter.Seq2[feature.Feature, error] {
	return h.selectLeaves(ctx, h.tree.Query(q), &q)
}

func (h *HTTPReader) selectLeaves(ctx context.Context, leaves []rtree.LeafEntry, filter *coord.Bounds) iter.Seq2[feature.Feature, error] {
	return func(yield func(feature.Feature, error) bool) {
		if len(leaves) == 0 {
			return
		}
		hits := make([]Hit, len(leaves))
		for i, l := range leaves {
			hits[i] = Hit{Offset: l.PageOffset, Length: l.PageLength}
		}

		for _, rng := range Plan(hits, h.cfg.coalesceGap) {
			select {
			case <-ctx.Done():
				yield(feature.Feature{}, fmt.Errorf("%w: %s", errs.ErrCancelled, ctx.Err()))
				return
			default:
			}
			if h.processRange(ctx, rng, filter, yield) {
				return
			}
		}
	}
}

// processRange streams one merged Range's body, decoding each page Span in
// turn and skipping the coalesced bridge bytes between them. It reports
// whether the consumer asked to stop (by returning false from yield, or
// because an error was surfaced).
func (h *HTTPReader) processRange(ctx context.Context, rng Range, filter *coord.Bounds, yield func(feature.Feature, error) bool) (stop bool) {
	fail := func(err error) bool {
		yield(feature.Feature{}, err)
		return true
	}

	body, err := h.fetcher.FetchRange(ctx, rng.Offset, rng.Length)
	if err != nil {
		return fail(err)
	}
	defer body.Close()

	cr := &countingReader{r: bufio.NewReader(body)}
	for _, span := range rng.Spans {
		bridge := (span.Offset - rng.Offset) - cr.pos
		if bridge > 0 {
			if _, err := io.CopyN(io.Discard, cr, int64(bridge)); err != nil {
				return fail(fmt.Errorf("%w: skipping to page start: %s", errs.ErrIO, err))
			}
		}

		spanStart := cr.pos
		uncompressedLength, err := wire.ReadUvarintFrom(cr)
		if err != nil {
			return fail(err)
		}
		featureCount, err := wire.ReadUvarintFrom(cr)
		if err != nil {
			return fail(err)
		}
		headerLen := cr.pos - spanStart
		if headerLen > span.Length {
			return fail(fmt.Errorf("%w: page header longer than its span", errs.ErrTruncated))
		}

		pageBody := make([]byte, span.Length-headerLen)
		if _, err := io.ReadFull(cr, pageBody); err != nil {
			return fail(fmt.Errorf("%w: reading page body: %s", errs.ErrIO, err))
		}
		featureBytes, err := h.codec.Decompress(pageBody, int(uncompressedLength))
		if err != nil {
			return fail(err)
		}

		off := 0
		for i := uint64(0); i < featureCount; i++ {
			feat, n, err := feature.Decode(featureBytes[off:], h.header.Schema)
			if err != nil {
				return fail(err)
			}
			off += n

			if filter != nil && !coord.Intersects(feat.Bounds, *filter) {
				continue
			}
			if !yield(feat, nil) {
				return true
			}
		}
	}
	return false
}

// countingReader tracks how many bytes have been read through it, so
// processRange can compute how far into a merged range it has advanced
// without the underlying bufio.Reader exposing that itself.
type countingReader struct {
	r   *bufio.Reader
	pos uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += uint64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.pos++
	}
	return b, err
}
