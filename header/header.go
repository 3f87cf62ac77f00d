// Package header implements geomedea's file header codec (§6): the
// fixed-size magic/version/flags prelude followed by the variable-length
// schema, total bounds, and index/feature locator tail.
package header

import (
	"fmt"

	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/internal/schemahash"
	"github.com/michaelkirk/geomedea/internal/wire"
	"github.com/michaelkirk/geomedea/property"
)

// FixedPrefixLen is the size of the header's fixed-layout prelude: magic (8)
// + version (4) + compression kind (1) + Hilbert order (1) + branching
// factor (1) + flags (2) + schema fingerprint (8).
const FixedPrefixLen = 8 + 4 + 1 + 1 + 1 + 2 + 8

// Header is geomedea's file header: everything a reader needs before it can
// locate the index and feature pages.
type Header struct {
	Version           uint32
	Compression       format.CompressionKind
	HilbertOrder      uint8
	BranchingFactor   uint8
	Schema            property.Schema
	TotalBounds       coord.Bounds
	PageCount         uint64
	FeatureCount      uint64
	IndexNodeCount    uint64
	IndexByteOffset   uint64
	FeatureByteOffset uint64

	// SchemaFingerprint is the xxHash64 of Schema's encoded wire form,
	// stamped into the header on Encode. It lets a reader holding a
	// schema-keyed cache or index confirm two files share a schema
	// without decoding and comparing the schema itself. Not load-bearing:
	// a reader that ignores it still decodes correctly.
	SchemaFingerprint uint64
}

// layoutFlags is the set of header layout flag bits this reader
// understands. A file whose flags aren't a subset of this set was
// written by a layout this reader can't interpret.
const layoutFlags = format.FlagIndexFirst

// Encode appends h's wire form to buf.
func (h Header) Encode(buf []byte) []byte {
	buf = append(buf, format.Magic...)
	buf = wire.AppendUint32(buf, h.Version)
	buf = append(buf, byte(h.Compression), h.HilbertOrder, h.BranchingFactor)
	buf = wire.AppendUint16(buf, format.FlagIndexFirst)

	schemaBytes := h.Schema.Encode(nil)
	buf = wire.AppendUint64(buf, schemahash.Sum(schemaBytes))

	buf = wire.AppendUvarint(buf, uint64(len(schemaBytes)))
	buf = append(buf, schemaBytes...)

	boundsBytes := encodeBounds(h.TotalBounds)
	buf = wire.AppendUvarint(buf, uint64(len(boundsBytes)))
	buf = append(buf, boundsBytes...)

	buf = wire.AppendUvarint(buf, h.PageCount)
	buf = wire.AppendUvarint(buf, h.FeatureCount)
	buf = wire.AppendUvarint(buf, h.IndexNodeCount)
	buf = wire.AppendUint64(buf, h.IndexByteOffset)
	buf = wire.AppendUint64(buf, h.FeatureByteOffset)
	return buf
}

// Decode reads a Header from the front of data, returning it and the number
// of bytes consumed.
func Decode(data []byte) (Header, int, error) {
	if len(data) < FixedPrefixLen {
		return Header{}, 0, errs.ErrTruncated
	}
	if string(data[0:8]) != format.Magic {
		return Header{}, 0, errs.ErrBadMagic
	}
	var h Header
	version, err := wire.ReadUint32(data[8:12])
	if err != nil {
		return Header{}, 0, err
	}
	h.Version = version
	if h.Version != format.Version {
		return Header{}, 0, fmt.Errorf("%w: got version %d, want %d", errs.ErrUnsupportedVersion, h.Version, format.Version)
	}
	h.Compression = format.CompressionKind(data[12])
	if !h.Compression.Valid() {
		return Header{}, 0, fmt.Errorf("%w: unknown compression kind %d", errs.ErrUnsupportedVersion, data[12])
	}
	h.HilbertOrder = data[13]
	h.BranchingFactor = data[14]
	flags, err := wire.ReadUint16(data[15:17])
	if err != nil {
		return Header{}, 0, err
	}
	if flags&^layoutFlags != 0 || flags&format.FlagIndexFirst == 0 {
		return Header{}, 0, fmt.Errorf("%w: unsupported header layout flags %#x", errs.ErrUnsupportedVersion, flags)
	}
	fingerprint, err := wire.ReadUint64(data[17:25])
	if err != nil {
		return Header{}, 0, err
	}
	h.SchemaFingerprint = fingerprint

	off := FixedPrefixLen

	schemaLen, n, err := wire.ReadUvarint(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += n
	if schemaLen > uint64(len(data)-off) {
		return Header{}, 0, errs.ErrTruncated
	}
	schemaBytes := data[off : off+int(schemaLen)]
	schema, sn, err := property.DecodeSchema(schemaBytes)
	if err != nil {
		return Header{}, 0, err
	}
	if sn != int(schemaLen) {
		return Header{}, 0, fmt.Errorf("%w: schema length mismatch", errs.ErrSchemaInvalid)
	}
	h.Schema = schema
	off += int(schemaLen)

	boundsLen, n, err := wire.ReadUvarint(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += n
	if boundsLen != 16 || boundsLen > uint64(len(data)-off) {
		return Header{}, 0, errs.ErrTruncated
	}
	bounds, err := decodeBounds(data[off : off+16])
	if err != nil {
		return Header{}, 0, err
	}
	h.TotalBounds = bounds
	off += 16

	h.PageCount, n, err = wire.ReadUvarint(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += n

	h.FeatureCount, n, err = wire.ReadUvarint(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += n

	h.IndexNodeCount, n, err = wire.ReadUvarint(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += n

	h.IndexByteOffset, err = wire.ReadUint64(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += 8

	h.FeatureByteOffset, err = wire.ReadUint64(data[off:])
	if err != nil {
		return Header{}, 0, err
	}
	off += 8

	return h, off, nil
}

func encodeBounds(b coord.Bounds) []byte {
	buf := make([]byte, 0, 16)
	buf = wire.AppendInt32(buf, b.MinLng)
	buf = wire.AppendInt32(buf, b.MinLat)
	buf = wire.AppendInt32(buf, b.MaxLng)
	buf = wire.AppendInt32(buf, b.MaxLat)
	return buf
}

func decodeBounds(data []byte) (coord.Bounds, error) {
	minLng, err := wire.ReadInt32(data[0:4])
	if err != nil {
		return coord.Bounds{}, err
	}
	minLat, err := wire.ReadInt32(data[4:8])
	if err != nil {
		return coord.Bounds{}, err
	}
	maxLng, err := wire.ReadInt32(data[8:12])
	if err != nil {
		return coord.Bounds{}, err
	}
	maxLat, err := wire.ReadInt32(data[12:16])
	if err != nil {
		return coord.Bounds{}, err
	}
	return coord.Bounds{MinLng: minLng, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat}, nil
}
