package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/geo"
	"github.com/michaelkirk/geomedea/property"
)

func TestNew_ComputesBounds(t *testing.T) {
	g := geo.LineString{coord.NewLngLat(0, 0), coord.NewLngLat(10, 5)}
	f := New(g, nil)
	assert.Equal(t, coord.ToFixed(0), f.Bounds.MinLng)
	assert.Equal(t, coord.ToFixed(10), f.Bounds.MaxLng)
	assert.NotNil(t, f.Properties)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	schema := property.Schema{Fields: []property.Field{
		{Name: "name", Kind: format.PropertyString},
		{Name: "pop", Kind: format.PropertyI64},
	}}
	f := New(geo.Point(coord.NewLngLat(-122.33, 47.6)), property.Map{
		0: property.String("Seattle"),
		1: property.I64(737015),
	})

	buf, err := Encode(nil, schema, f)
	require.NoError(t, err)

	got, n, err := Decode(buf, schema)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, f.Geometry, got.Geometry)
	assert.Equal(t, f.Properties, got.Properties)
	assert.Equal(t, f.Bounds, got.Bounds)
}

func TestEncode_RejectsSchemaViolation(t *testing.T) {
	schema := property.Schema{Fields: []property.Field{{Name: "pop", Kind: format.PropertyI64}}}
	f := New(geo.Point(coord.NewLngLat(0, 0)), property.Map{0: property.String("nope")})
	_, err := Encode(nil, schema, f)
	require.Error(t, err)
}
