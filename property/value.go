package property

import (
	"fmt"
	"unicode/utf8"

	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/internal/wire"
)

// Value is implemented by every concrete property variant. Unlike Geometry's
// wire form, a Value's encoding carries no tag byte of its own — the schema's
// declared_kind for the referencing index dictates how to decode it.
type Value interface {
	Kind() format.PropertyKind
}

type (
	Bool   bool
	I64    int64
	U64    uint64
	F64    float64
	String string
	Bytes  []byte
)

func (Bool) Kind() format.PropertyKind   { return format.PropertyBool }
func (I64) Kind() format.PropertyKind    { return format.PropertyI64 }
func (U64) Kind() format.PropertyKind    { return format.PropertyU64 }
func (F64) Kind() format.PropertyKind    { return format.PropertyF64 }
func (String) Kind() format.PropertyKind { return format.PropertyString }
func (Bytes) Kind() format.PropertyKind  { return format.PropertyBytes }

// encodeValue appends v's payload (no tag) to buf.
func encodeValue(buf []byte, v Value) []byte {
	switch val := v.(type) {
	case Bool:
		if val {
			return append(buf, 1)
		}
		return append(buf, 0)
	case I64:
		return wire.AppendUint64(buf, uint64(val))
	case U64:
		return wire.AppendUint64(buf, uint64(val))
	case F64:
		return wire.AppendFloat64(buf, float64(val))
	case String:
		buf = wire.AppendUvarint(buf, uint64(len(val)))
		return append(buf, val...)
	case Bytes:
		buf = wire.AppendUvarint(buf, uint64(len(val)))
		return append(buf, val...)
	default:
		panic(fmt.Sprintf("property: unhandled value variant %T", v))
	}
}

// decodeValue reads a value of the given declared kind from the front of
// data, returning the value and the number of bytes consumed.
func decodeValue(data []byte, kind format.PropertyKind) (Value, int, error) {
	switch kind {
	case format.PropertyBool:
		if len(data) < 1 {
			return nil, 0, errs.ErrTruncated
		}
		return Bool(data[0] != 0), 1, nil

	case format.PropertyI64:
		u, err := wire.ReadUint64(data)
		if err != nil {
			return nil, 0, err
		}
		return I64(int64(u)), 8, nil

	case format.PropertyU64:
		u, err := wire.ReadUint64(data)
		if err != nil {
			return nil, 0, err
		}
		return U64(u), 8, nil

	case format.PropertyF64:
		f, err := wire.ReadFloat64(data)
		if err != nil {
			return nil, 0, err
		}
		return F64(f), 8, nil

	case format.PropertyString:
		n, off, err := wire.ReadUvarint(data)
		if err != nil {
			return nil, 0, err
		}
		if n > uint64(len(data)-off) {
			return nil, 0, errs.ErrTruncated
		}
		s := data[off : off+int(n)]
		if !utf8.Valid(s) {
			return nil, 0, errs.ErrUtf8
		}
		return String(s), off + int(n), nil

	case format.PropertyBytes:
		n, off, err := wire.ReadUvarint(data)
		if err != nil {
			return nil, 0, err
		}
		if n > uint64(len(data)-off) {
			return nil, 0, errs.ErrTruncated
		}
		b := make([]byte, n)
		copy(b, data[off:off+int(n)])
		return Bytes(b), off + int(n), nil

	default:
		return nil, 0, fmt.Errorf("%w: property kind %d", errs.ErrInvalidVariant, kind)
	}
}
