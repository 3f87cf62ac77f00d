package geo

import (
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/internal/wire"
)

// encodeCoords appends a length-prefixed coordinate sequence: a varint count
// followed by count (lng, lat) pairs of little-endian i32.
func encodeCoords(buf []byte, pts []coord.LngLat) []byte {
	buf = wire.AppendUvarint(buf, uint64(len(pts)))
	for _, p := range pts {
		buf = wire.AppendInt32(buf, p.LngE7)
		buf = wire.AppendInt32(buf, p.LatE7)
	}
	return buf
}

// decodeCoords reads a length-prefixed coordinate sequence, returning the
// points and the number of bytes consumed from data.
//
// The decoded count is checked against the remaining buffer length before
// any allocation: a corrupt or adversarial count can't force an oversized
// allocation, it just surfaces as ErrTruncated.
func decodeCoords(data []byte) ([]coord.LngLat, int, error) {
	count, n, err := wire.ReadUvarint(data)
	if err != nil {
		return nil, 0, err
	}
	off := n
	const coordSize = 8
	need := count * coordSize
	if need > uint64(len(data)-off) {
		return nil, 0, errs.ErrTruncated
	}
	pts := make([]coord.LngLat, count)
	for i := range pts {
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
		pts[i] = coord.LngLat{LngE7: lng, LatE7: lat}
	}
	return pts, off, nil
}
