package property

import (
	"fmt"

	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/internal/wire"
)

// Map is a feature's sparse property map, keyed by schema field index.
type Map map[int]Value

// Validate checks that every present index is within schema and that its
// value's kind matches the schema's declared_kind for that index.
func (m Map) Validate(schema Schema) error {
	for idx, v := range m {
		if idx < 0 || idx >= len(schema.Fields) {
			return fmt.Errorf("%w: index %d", errs.ErrSchemaIndexOutOfRange, idx)
		}
		if want := schema.Fields[idx].Kind; v.Kind() != want {
			return fmt.Errorf("%w: field %q wants %s, got %s", errs.ErrPropertyKindMismatch, schema.Fields[idx].Name, want, v.Kind())
		}
	}
	return nil
}

// Encode appends m's wire form to buf: a varint count of present entries
// followed by (varint schema_index, untagged value) pairs in ascending
// schema order, matching the schema's declared field order.
func Encode(buf []byte, schema Schema, m Map) ([]byte, error) {
	if err := m.Validate(schema); err != nil {
		return nil, err
	}
	buf = wire.AppendUvarint(buf, uint64(len(m)))
	for idx := range schema.Fields {
		v, ok := m[idx]
		if !ok {
			continue
		}
		buf = wire.AppendUvarint(buf, uint64(idx))
		buf = encodeValue(buf, v)
	}
	return buf, nil
}

// Decode reads a property map from the front of data against schema,
// returning the map and the number of bytes consumed.
func Decode(data []byte, schema Schema) (Map, int, error) {
	count, off, err := wire.ReadUvarint(data)
	if err != nil {
		return nil, 0, err
	}
	m := make(Map, count)
	for i := uint64(0); i < count; i++ {
		idx, n, err := wire.ReadUvarint(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		if idx >= uint64(len(schema.Fields)) {
			return nil, 0, fmt.Errorf("%w: index %d", errs.ErrSchemaIndexOutOfRange, idx)
		}
		v, n, err := decodeValue(data[off:], schema.Fields[idx].Kind)
		if err != nil {
			return nil, 0, err
		}
		off += n
		m[int(idx)] = v
	}
	return m, off, nil
}
