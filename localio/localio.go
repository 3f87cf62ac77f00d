// Package localio implements geomedea's local random-access file reader
// (C6): open a file, read its header and index fully into memory, then
// resolve select_all / select_bbox to page reads and feature decodes.
package localio

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/michaelkirk/geomedea/compress"
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/feature"
	"github.com/michaelkirk/geomedea/header"
	"github.com/michaelkirk/geomedea/page"
	"github.com/michaelkirk/geomedea/rtree"
)

// initialHeaderProbe is the first guess at how many bytes the fixed prefix
// plus variable schema/bounds tail will take. Most headers fit in a single
// probe; readHeader doubles and retries when one doesn't.
const initialHeaderProbe = 4096

// File is an opened, read-only geomedea file. Its header and index are
// held in memory; feature pages are read on demand via ReadAt.
type File struct {
	file   *os.File
	header header.Header
	tree   *rtree.Tree
	codec  compress.Codec
}

// Open opens path and reads its header and index into memory.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrIO, err)
	}
	file, err := newFile(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return file, nil
}

func newFile(f *os.File) (*File, error) {
	h, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	indexLen := int64(h.FeatureByteOffset) - int64(h.IndexByteOffset)
	if indexLen < 0 {
		return nil, fmt.Errorf("%w: feature offset precedes index offset", errs.ErrUnsupportedVersion)
	}
	indexBuf := make([]byte, indexLen)
	if indexLen > 0 {
		if _, err := f.ReadAt(indexBuf, int64(h.IndexByteOffset)); err != nil && !errors.Is(err, io.EOF) {
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

	return &File{file: f, header: h, tree: tree, codec: codec}, nil
}

// readHeader reads and decodes the file header, growing its read buffer
// until header.Decode stops reporting a truncated prefix or the file itself
// is confirmed shorter than a valid header.
func readHeader(f *os.File) (header.Header, error) {
	size := initialHeaderProbe
	for {
		buf := make([]byte, size)
		n, err := f.ReadAt(buf, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return header.Header{}, fmt.Errorf("%w: %s", errs.ErrIO, err)
		}
		buf = buf[:n]

		h, _, decodeErr := header.Decode(buf)
		if decodeErr == nil {
			return h, nil
		}
		if !errors.Is(decodeErr, errs.ErrTruncated) {
			return header.Header{}, decodeErr
		}
		if n < size {
			// The file itself ended before a full header was read.
			return header.Header{}, fmt.Errorf("%w: file too short for header", errs.ErrTruncated)
		}
		size *= 2
	}
}

// Header returns the decoded file header.
func (f *File) Header() header.Header {
	return f.header
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrIO, err)
	}
	return nil
}

// SelectAll iterates every feature in the file, in index (Hilbert) leaf
// order.
func (f *File) SelectAll() iter.Seq2[feature.Feature, error] {
	return f.iteratePages(f.tree.Leaves, nil)
}

// SelectBbox queries the index for pages intersecting q, then yields every
// feature from a hit page whose own bounds intersect q.
func (f *File) SelectBbox(q coord.Bounds) iter.Seq2[feature.Feature, error] {
	return f.iteratePages(f.tree.Query(q), &q)
}

func (f *File) iteratePages(leaves []rtree.LeafEntry, filter *coord.Bounds) iter.Seq2[feature.Feature, error] {
	return func(yield func(feature.Feature, error) bool) {
		for _, leaf := range leaves {
			buf := make([]byte, leaf.PageLength)
			if _, err := f.file.ReadAt(buf, int64(leaf.PageOffset)); err != nil && !errors.Is(err, io.EOF) {
				yield(feature.Feature{}, fmt.Errorf("%w: reading page: %s", errs.ErrIO, err))
				return
			}

			_, featureBytes, _, err := page.Decode(f.codec, buf)
			if err != nil {
				yield(feature.Feature{}, err)
				return
			}

			off := 0
			for off < len(featureBytes) {
				feat, n, err := feature.Decode(featureBytes[off:], f.header.Schema)
				if err != nil {
					yield(feature.Feature{}, err)
					return
				}
				off += n

				if filter != nil && !coord.Intersects(feat.Bounds, *filter) {
					continue
				}
				if !yield(feat, nil) {
					return
				}
			}
		}
	}
}
