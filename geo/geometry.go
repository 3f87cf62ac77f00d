// Package geo implements geomedea's geometry half of the feature codec (C2):
// the Point/LineString/Polygon/... tagged variant, its bounds computation,
// and its binary encoding.
package geo

import (
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/format"
)

// Geometry is implemented by every concrete geometry variant.
type Geometry interface {
	// Type returns the variant's stable tag byte.
	Type() format.GeometryType
	// Bounds returns the union of the geometry's coordinates.
	Bounds() coord.Bounds
}

// Point is a single coordinate.
type Point coord.LngLat

func (p Point) Type() format.GeometryType { return format.GeometryPoint }
func (p Point) Bounds() coord.Bounds      { return coord.FromPoint(coord.LngLat(p)) }

// LineString is an ordered coordinate sequence. Ring is an alias used where
// a LineString specifically closes a polygon boundary.
type LineString []coord.LngLat
type Ring = LineString

func (l LineString) Type() format.GeometryType { return format.GeometryLineString }
func (l LineString) Bounds() coord.Bounds      { return seqBounds(l) }

// Polygon is an outer ring followed by zero or more inner (hole) rings.
// Producers SHOULD supply closed rings; the codec doesn't require it.
type Polygon []Ring

func (p Polygon) Type() format.GeometryType { return format.GeometryPolygon }
func (p Polygon) Bounds() coord.Bounds {
	b := coord.Empty()
	for _, ring := range p {
		b = coord.Union(b, seqBounds(ring))
	}
	return b
}

// MultiPoint is an unordered-in-practice, ordered-on-disk set of points.
type MultiPoint []coord.LngLat

func (m MultiPoint) Type() format.GeometryType { return format.GeometryMultiPoint }
func (m MultiPoint) Bounds() coord.Bounds      { return seqBounds(m) }

// MultiLineString is a sequence of LineStrings.
type MultiLineString []LineString

func (m MultiLineString) Type() format.GeometryType { return format.GeometryMultiLineString }
func (m MultiLineString) Bounds() coord.Bounds {
	b := coord.Empty()
	for _, l := range m {
		b = coord.Union(b, seqBounds(l))
	}
	return b
}

// MultiPolygon is a sequence of Polygons.
type MultiPolygon []Polygon

func (m MultiPolygon) Type() format.GeometryType { return format.GeometryMultiPolygon }
func (m MultiPolygon) Bounds() coord.Bounds {
	b := coord.Empty()
	for _, p := range m {
		b = coord.Union(b, p.Bounds())
	}
	return b
}

// GeometryCollection is a heterogeneous sequence of geometries. Per the
// resolved open question, a GeometryCollection may not itself contain a
// nested GeometryCollection; Decode enforces this.
type GeometryCollection []Geometry

func (g GeometryCollection) Type() format.GeometryType { return format.GeometryGeometryCollection }
func (g GeometryCollection) Bounds() coord.Bounds {
	b := coord.Empty()
	for _, sub := range g {
		b = coord.Union(b, sub.Bounds())
	}
	return b
}

func seqBounds(pts []coord.LngLat) coord.Bounds {
	b := coord.Empty()
	for _, p := range pts {
		b = b.Expand(p)
	}
	return b
}
