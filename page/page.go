// Package page implements geomedea's page codec (C3): the two-varint frame
// header that wraps a page's (optionally compressed) concatenated feature
// encodings.
package page

import (
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/internal/wire"
)

// Header is a page's uncompressed frame header: the length the body
// decompresses to (or its literal length, for CompressionNone) and the
// number of features it contains. The header itself is never compressed,
// so a streaming reader can size the frame before feeding a decompressor.
type Header struct {
	UncompressedLength uint64
	FeatureCount       uint64
}

// Encode appends h's wire form to buf.
func (h Header) Encode(buf []byte) []byte {
	buf = wire.AppendUvarint(buf, h.UncompressedLength)
	buf = wire.AppendUvarint(buf, h.FeatureCount)
	return buf
}

// DecodeHeader reads a Header from the front of data, returning it and the
// number of bytes consumed.
func DecodeHeader(data []byte) (Header, int, error) {
	uncompLen, n1, err := wire.ReadUvarint(data)
	if err != nil {
		return Header{}, 0, err
	}
	count, n2, err := wire.ReadUvarint(data[n1:])
	if err != nil {
		return Header{}, 0, err
	}
	return Header{UncompressedLength: uncompLen, FeatureCount: count}, n1 + n2, nil
}

// MaxHeaderLen bounds a single Header's wire size.
const MaxHeaderLen = 2 * wire.MaxVarintLen

// validateNonEmpty rejects a page claiming zero features; the writer always
// emits at least one feature per page, so a reader seeing zero is corrupt
// framing rather than a legitimately empty page.
func validateNonEmpty(h Header) error {
	if h.FeatureCount == 0 {
		return errs.ErrTruncated
	}
	return nil
}
