// Package feature implements the Feature type and its codec (C2): a
// geometry paired with a sparse property map, plus the feature's computed
// bounds.
package feature

import (
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/geo"
	"github.com/michaelkirk/geomedea/property"
)

// Feature is a single record: a geometry and its properties. Bounds is
// computed from Geometry, not stored independently, but is cached here once
// known so callers (the writer's page-bounds accumulation, the index build)
// don't recompute it.
type Feature struct {
	Geometry   geo.Geometry
	Properties property.Map
	Bounds     coord.Bounds
}

// New builds a Feature, computing its bounds from geometry.
func New(geometry geo.Geometry, props property.Map) Feature {
	if props == nil {
		props = property.Map{}
	}
	return Feature{
		Geometry:   geometry,
		Properties: props,
		Bounds:     geometry.Bounds(),
	}
}

// Encode appends f's wire form (geometry then property map) to buf.
func Encode(buf []byte, schema property.Schema, f Feature) ([]byte, error) {
	buf = geo.Encode(buf, f.Geometry)
	return property.Encode(buf, schema, f.Properties)
}

// Decode reads a single Feature from the front of data against schema,
// returning the feature and the number of bytes consumed. Bounds is
// recomputed from the decoded geometry.
func Decode(data []byte, schema property.Schema) (Feature, int, error) {
	g, gn, err := geo.Decode(data)
	if err != nil {
		return Feature{}, 0, err
	}
	props, pn, err := property.Decode(data[gn:], schema)
	if err != nil {
		return Feature{}, 0, err
	}
	return Feature{Geometry: g, Properties: props, Bounds: g.Bounds()}, gn + pn, nil
}
