// Package property implements geomedea's property half of the feature codec
// (C2): the file-wide PropertySchema, the PropertyValue tagged variant, and
// the sparse property-map codec that reads/writes a feature's properties
// against that schema.
package property

import (
	"fmt"

	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/internal/wire"
)

// Field is one declared (name, kind) pair in a schema.
type Field struct {
	Name string
	Kind format.PropertyKind
}

// Schema is the ordered, file-wide list of declared property fields.
// Features reference fields by index rather than repeating the name.
type Schema struct {
	Fields []Field
}

// IndexOf returns the schema index of name, or -1 if not declared.
func (s Schema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Encode appends s's length-prefixed wire form to buf.
func (s Schema) Encode(buf []byte) []byte {
	buf = wire.AppendUvarint(buf, uint64(len(s.Fields)))
	for _, f := range s.Fields {
		buf = wire.AppendUvarint(buf, uint64(len(f.Name)))
		buf = append(buf, f.Name...)
		buf = append(buf, byte(f.Kind))
	}
	return buf
}

// DecodeSchema reads a Schema from the front of data, returning it and the
// number of bytes consumed.
func DecodeSchema(data []byte) (Schema, int, error) {
	count, off, err := wire.ReadUvarint(data)
	if err != nil {
		return Schema{}, 0, err
	}
	fields := make([]Field, count)
	for i := range fields {
		nameLen, n, err := wire.ReadUvarint(data[off:])
		if err != nil {
			return Schema{}, 0, err
		}
		off += n
		if nameLen > uint64(len(data)-off) {
			return Schema{}, 0, errs.ErrTruncated
		}
		name := string(data[off : off+int(nameLen)])
		off += int(nameLen)

		if off >= len(data) {
			return Schema{}, 0, errs.ErrTruncated
		}
		kind := format.PropertyKind(data[off])
		off++
		if !kind.Valid() {
			return Schema{}, 0, fmt.Errorf("%w: field %q has unknown kind %d", errs.ErrSchemaInvalid, name, kind)
		}
		fields[i] = Field{Name: name, Kind: kind}
	}
	return Schema{Fields: fields}, off, nil
}
