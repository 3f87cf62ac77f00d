// Package wire provides the little-endian primitives shared by every
// geomedea codec: LEB128-style varints for lengths and schema indices, and
// fixed-width little-endian integers for coordinates and offsets.
//
// Geomedea's on-disk format is always little-endian (spec: "implementations
// MUST be endian-stable"), so unlike a format that supports multiple byte
// orders, there's no engine/strategy abstraction here — just
// encoding/binary.LittleEndian, used directly and consistently.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/michaelkirk/geomedea/errs"
)

// MaxVarintLen is the maximum number of bytes a varint-encoded uint64 may
// occupy before it's considered corrupt (spec: "varint overflow (>10 bytes
// for u64)").
const MaxVarintLen = binary.MaxVarintLen64

// AppendUvarint appends the LEB128 varint encoding of v to buf.
func AppendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

// ReadUvarint reads a varint from the front of buf, returning the decoded
// value and the number of bytes consumed.
func ReadUvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n == 0 {
		return 0, 0, errs.ErrTruncated
	}
	if n < 0 {
		return 0, 0, errs.ErrVarintOverflow
	}
	return v, n, nil
}

// ReadUvarintFrom reads a varint from r, for decode paths streaming over an
// io.ByteReader (an HTTP response body, say) rather than a byte slice
// that's already fully in hand.
func ReadUvarintFrom(r io.ByteReader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, errs.ErrTruncated
		}
		return 0, errs.ErrVarintOverflow
	}
	return v, nil
}

// AppendInt32 appends the little-endian encoding of v.
func AppendInt32(buf []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(v))
}

// ReadInt32 reads a little-endian int32 from the front of buf.
func ReadInt32(buf []byte) (int32, error) {
	if len(buf) < 4 {
		return 0, errs.ErrTruncated
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

// AppendUint64 appends the little-endian encoding of v.
func AppendUint64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

// ReadUint64 reads a little-endian uint64 from the front of buf.
func ReadUint64(buf []byte) (uint64, error) {
	if len(buf) < 8 {
		return 0, errs.ErrTruncated
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// AppendUint16 appends the little-endian encoding of v.
func AppendUint16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

// ReadUint16 reads a little-endian uint16 from the front of buf.
func ReadUint16(buf []byte) (uint16, error) {
	if len(buf) < 2 {
		return 0, errs.ErrTruncated
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// AppendUint32 appends the little-endian encoding of v.
func AppendUint32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// ReadUint32 reads a little-endian uint32 from the front of buf.
func ReadUint32(buf []byte) (uint32, error) {
	if len(buf) < 4 {
		return 0, errs.ErrTruncated
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// AppendFloat64 appends the little-endian bit pattern of v.
func AppendFloat64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

// ReadFloat64 reads a little-endian float64 from the front of buf.
func ReadFloat64(buf []byte) (float64, error) {
	bits, err := ReadUint64(buf)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
