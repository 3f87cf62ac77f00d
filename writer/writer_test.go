package writer

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkirk/geomedea/compress"
	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/feature"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/geo"
	"github.com/michaelkirk/geomedea/header"
	"github.com/michaelkirk/geomedea/page"
	"github.com/michaelkirk/geomedea/property"
	"github.com/michaelkirk/geomedea/rtree"
)

func testSchema() property.Schema {
	return property.Schema{Fields: []property.Field{
		{Name: "name", Kind: format.PropertyString},
		{Name: "pop", Kind: format.PropertyI64},
	}}
}

func pointFeature(lng, lat float64, name string) feature.Feature {
	return feature.New(geo.Point(coord.NewLngLat(lng, lat)), property.Map{
		0: property.String(name),
		1: property.I64(42),
	})
}

func TestWriter_RejectsCloseWithNoFeatures(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema())
	require.NoError(t, err)

	err = w.Close()
	assert.ErrorIs(t, err, errs.ErrEmptyFile)
	assert.Equal(t, StateDone, w.State())
}

func TestWriter_SecondCloseReturnsErrClosed(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema())
	require.NoError(t, err)
	require.NoError(t, w.AddFeature(pointFeature(0, 0, "a")))
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Close(), errs.ErrClosed)
}

func TestWriter_AddFeatureAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema())
	require.NoError(t, err)
	require.NoError(t, w.AddFeature(pointFeature(0, 0, "a")))
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.AddFeature(pointFeature(1, 1, "b")), errs.ErrClosed)
}

func TestWriter_InvalidPropertyKindIsNotConsumed(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema())
	require.NoError(t, err)

	bad := feature.New(geo.Point(coord.NewLngLat(0, 0)), property.Map{
		0: property.I64(1), // schema says field 0 is a string
	})
	err = w.AddFeature(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPropertyKindMismatch)
	assert.Equal(t, StateOpen, w.State(), "a rejected feature must not advance writer state")
}

func TestWriter_SmallFile_RoundTripsThroughHeaderIndexAndPages(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema(), WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	features := []feature.Feature{
		pointFeature(-122.33, 47.60, "seattle"),
		pointFeature(-73.98, 40.75, "new york"),
		pointFeature(2.35, 48.85, "paris"),
	}
	for _, f := range features {
		require.NoError(t, w.AddFeature(f))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, StateDone, w.State())

	data := buf.Bytes()
	h, hn, err := header.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h.PageCount)
	assert.Equal(t, uint64(len(features)), h.FeatureCount)
	assert.Equal(t, format.CompressionZstd, h.Compression)
	assert.Equal(t, uint64(hn), h.IndexByteOffset)

	indexBytes := data[h.IndexByteOffset:h.FeatureByteOffset]
	tree, err := rtree.Decode(indexBytes, int(h.PageCount), h.BranchingFactor, int(h.IndexNodeCount))
	require.NoError(t, err)
	require.Len(t, tree.Leaves, 1)

	leaf := tree.Leaves[0]
	pageBytes := data[leaf.PageOffset : leaf.PageOffset+leaf.PageLength]
	codec, err := compress.ForKind(h.Compression)
	require.NoError(t, err)
	_, featureBytes, _, err := page.Decode(codec, pageBytes)
	require.NoError(t, err)

	off := 0
	for _, want := range features {
		got, n, err := feature.Decode(featureBytes[off:], h.Schema)
		require.NoError(t, err)
		assert.Equal(t, want.Geometry, got.Geometry)
		assert.Equal(t, want.Properties, got.Properties)
		off += n
	}
	assert.Equal(t, len(featureBytes), off)
}

func TestWriter_OversizeFeatureGetsOwnPage(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema(), WithPageBudget(64))
	require.NoError(t, err)

	ring := make(geo.Ring, 0, 2000)
	for i := 0; i < 2000; i++ {
		ring = append(ring, coord.NewLngLat(float64(i%180), float64(i%90)))
	}
	big := feature.New(geo.Polygon{ring}, property.Map{0: property.String("huge")})
	small := pointFeature(1, 1, "tiny")

	require.NoError(t, w.AddFeature(big))
	require.NoError(t, w.AddFeature(small))
	require.NoError(t, w.Close())

	h, _, err := header.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h.PageCount, "the oversize feature must flush into its own page")
}

func TestWriter_OversizeFeatureAfterAccumulatedFeaturesGetsOwnPage(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema(), WithPageBudget(64))
	require.NoError(t, err)

	ring := make(geo.Ring, 0, 2000)
	for i := 0; i < 2000; i++ {
		ring = append(ring, coord.NewLngLat(float64(i%180), float64(i%90)))
	}
	big := feature.New(geo.Polygon{ring}, property.Map{0: property.String("huge")})

	require.NoError(t, w.AddFeature(pointFeature(1, 1, "tiny")))
	require.NoError(t, w.AddFeature(big))
	require.NoError(t, w.Close())

	data := buf.Bytes()
	h, _, err := header.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h.PageCount, "an oversize feature arriving after accumulated features must still get its own page")

	indexBytes := data[h.IndexByteOffset:h.FeatureByteOffset]
	tree, err := rtree.Decode(indexBytes, int(h.PageCount), h.BranchingFactor, int(h.IndexNodeCount))
	require.NoError(t, err)
	require.Len(t, tree.Leaves, 2)

	codec, err := compress.ForKind(h.Compression)
	require.NoError(t, err)
	for _, leaf := range tree.Leaves {
		pageBytes := data[leaf.PageOffset : leaf.PageOffset+leaf.PageLength]
		pageHeader, _, _, err := page.Decode(codec, pageBytes)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), pageHeader.FeatureCount, "each page must hold exactly one feature when the second is oversize")
	}
}

func TestWriter_RejectOversizePagesOption(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema(), WithPageBudget(8), WithRejectOversizePages(true))
	require.NoError(t, err)

	ring := make(geo.Ring, 0, 200)
	for i := 0; i < 200; i++ {
		ring = append(ring, coord.NewLngLat(float64(i), float64(i)))
	}
	big := feature.New(geo.Polygon{ring}, property.Map{0: property.String("huge")})

	err = w.AddFeature(big)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPageOverflow)
}

func TestWriter_ManyFeaturesSpanMultiplePages(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, testSchema(), WithPageBudget(256))
	require.NoError(t, err)

	const n = 200
	for i := 0; i < n; i++ {
		lng := float64(i%360) - 180
		lat := float64(i%170) - 85
		require.NoError(t, w.AddFeature(pointFeature(lng, lat, "pt")))
	}
	require.NoError(t, w.Close())

	h, hn, err := header.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint64(n), h.FeatureCount)
	assert.Greater(t, h.PageCount, uint64(1))
	assert.Equal(t, uint64(hn), h.IndexByteOffset)

	indexBytes := buf.Bytes()[h.IndexByteOffset:h.FeatureByteOffset]
	tree, err := rtree.Decode(indexBytes, int(h.PageCount), h.BranchingFactor, int(h.IndexNodeCount))
	require.NoError(t, err)
	assert.Len(t, tree.Leaves, int(h.PageCount))

	// Leaves are in Hilbert order while pages sit in the file in write order,
	// so compare them sorted by offset: page offsets must be strictly
	// increasing and every page must fit within the file.
	byOffset := append([]rtree.LeafEntry(nil), tree.Leaves...)
	sort.Slice(byOffset, func(i, j int) bool { return byOffset[i].PageOffset < byOffset[j].PageOffset })
	fileLen := uint64(buf.Len())
	for i, l := range byOffset {
		assert.GreaterOrEqual(t, l.PageOffset, h.FeatureByteOffset)
		assert.LessOrEqual(t, l.PageOffset+l.PageLength, fileLen)
		if i > 0 {
			assert.Greater(t, l.PageOffset, byOffset[i-1].PageOffset)
		}
	}
}
