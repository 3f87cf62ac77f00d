package geo

import (
	"fmt"

	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/internal/wire"
)

// Encode appends g's tag byte and variant payload to buf.
func Encode(buf []byte, g Geometry) []byte {
	buf = append(buf, byte(g.Type()))
	return encodeBody(buf, g)
}

func encodeBody(buf []byte, g Geometry) []byte {
	switch v := g.(type) {
	case Point:
		return wire.AppendInt32(wire.AppendInt32(buf, v.LngE7), v.LatE7)
	case LineString:
		return encodeCoords(buf, v)
	case Polygon:
		buf = wire.AppendUvarint(buf, uint64(len(v)))
		for _, ring := range v {
			buf = encodeCoords(buf, ring)
		}
		return buf
	case MultiPoint:
		return encodeCoords(buf, v)
	case MultiLineString:
		buf = wire.AppendUvarint(buf, uint64(len(v)))
		for _, line := range v {
			buf = encodeCoords(buf, line)
		}
		return buf
	case MultiPolygon:
		buf = wire.AppendUvarint(buf, uint64(len(v)))
		for _, poly := range v {
			buf = wire.AppendUvarint(buf, uint64(len(poly)))
			for _, ring := range poly {
				buf = encodeCoords(buf, ring)
			}
		}
		return buf
	case GeometryCollection:
		buf = wire.AppendUvarint(buf, uint64(len(v)))
		for _, sub := range v {
			buf = Encode(buf, sub)
		}
		return buf
	default:
		panic(fmt.Sprintf("geo: unhandled geometry variant %T", g))
	}
}

// Decode reads a tagged geometry from the front of data, returning the
// geometry and the number of bytes consumed.
//
// A GeometryCollection may not contain a nested GeometryCollection; decoding
// one returns errs.ErrInvalidVariant.
func Decode(data []byte) (Geometry, int, error) {
	return decode(data, false)
}

func decode(data []byte, insideCollection bool) (Geometry, int, error) {
	if len(data) < 1 {
		return nil, 0, errs.ErrTruncated
	}
	tag := format.GeometryType(data[0])
	off := 1

	switch tag {
	case format.GeometryPoint:
		lng, err := wire.ReadInt32(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += 4
		lat, err := wire.ReadInt32(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += 4
		return Point{LngE7: lng, LatE7: lat}, off, nil

	case format.GeometryLineString:
		pts, n, err := decodeCoords(data[off:])
		if err != nil {
			return nil, 0, err
		}
		return LineString(pts), off + n, nil

	case format.GeometryPolygon:
		poly, n, err := decodePolygon(data[off:])
		if err != nil {
			return nil, 0, err
		}
		return poly, off + n, nil

	case format.GeometryMultiPoint:
		pts, n, err := decodeCoords(data[off:])
		if err != nil {
			return nil, 0, err
		}
		return MultiPoint(pts), off + n, nil

	case format.GeometryMultiLineString:
		count, n, err := wire.ReadUvarint(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		lines := make(MultiLineString, count)
		for i := range lines {
			pts, n, err := decodeCoords(data[off:])
			if err != nil {
				return nil, 0, err
			}
			lines[i] = LineString(pts)
			off += n
		}
		return lines, off, nil

	case format.GeometryMultiPolygon:
		count, n, err := wire.ReadUvarint(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		polys := make(MultiPolygon, count)
		for i := range polys {
			poly, n, err := decodePolygon(data[off:])
			if err != nil {
				return nil, 0, err
			}
			polys[i] = poly
			off += n
		}
		return polys, off, nil

	case format.GeometryGeometryCollection:
		if insideCollection {
			return nil, 0, fmt.Errorf("%w: nested GeometryCollection", errs.ErrInvalidVariant)
		}
		count, n, err := wire.ReadUvarint(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		coll := make(GeometryCollection, count)
		for i := range coll {
			sub, n, err := decode(data[off:], true)
			if err != nil {
				return nil, 0, err
			}
			coll[i] = sub
			off += n
		}
		return coll, off, nil

	default:
		return nil, 0, fmt.Errorf("%w: geometry tag %d", errs.ErrInvalidVariant, tag)
	}
}

func decodePolygon(data []byte) (Polygon, int, error) {
	count, off, err := wire.ReadUvarint(data)
	if err != nil {
		return nil, 0, err
	}
	poly := make(Polygon, count)
	for i := range poly {
		pts, n, err := decodeCoords(data[off:])
		if err != nil {
			return nil, 0, err
		}
		poly[i] = Ring(pts)
		off += n
	}
	return poly, off, nil
}
