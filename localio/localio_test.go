package localio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/feature"
	"github.com/michaelkirk/geomedea/format"
	"github.com/michaelkirk/geomedea/geo"
	"github.com/michaelkirk/geomedea/property"
	"github.com/michaelkirk/geomedea/writer"
)

func testSchema() property.Schema {
	return property.Schema{Fields: []property.Field{
		{Name: "city", Kind: format.PropertyString},
	}}
}

func testFeatures() []feature.Feature {
	named := []struct {
		lng, lat float64
		name     string
	}{
		{-122.33, 47.60, "seattle"},
		{-73.98, 40.75, "new york"},
		{2.35, 48.85, "paris"},
		{139.69, 35.69, "tokyo"},
		{151.21, -33.87, "sydney"},
	}
	out := make([]feature.Feature, len(named))
	for i, n := range named {
		out[i] = feature.New(geo.Point(coord.NewLngLat(n.lng, n.lat)), property.Map{
			0: property.String(n.name),
		})
	}
	return out
}

func buildTestFile(t *testing.T, opts ...writer.Option) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.gmd")
	f, err := os.Create(path)
	require.NoError(t, err)

	w, err := writer.New(f, testSchema(), opts...)
	require.NoError(t, err)
	for _, ft := range testFeatures() {
		require.NoError(t, w.AddFeature(ft))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func cityNames(t *testing.T, seq func(func(feature.Feature, error) bool)) []string {
	t.Helper()
	var names []string
	for feat, err := range seq {
		require.NoError(t, err)
		v, ok := feat.Properties[0]
		require.True(t, ok)
		names = append(names, string(v.(property.String)))
	}
	return names
}

func TestOpen_ReadsHeaderAndIndex(t *testing.T) {
	path := buildTestFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	h := f.Header()
	assert.Equal(t, uint64(len(testFeatures())), h.FeatureCount)
	assert.Equal(t, format.Version, h.Version)
}

func TestSelectAll_ReturnsEveryFeature(t *testing.T) {
	path := buildTestFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	names := cityNames(t, f.SelectAll())
	assert.ElementsMatch(t, []string{"seattle", "new york", "paris", "tokyo", "sydney"}, names)
}

func TestSelectBbox_FiltersToIntersectingFeatures(t *testing.T) {
	path := buildTestFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	// A box around the US west coast / east coast should only catch
	// seattle and new york.
	q := coord.Bounds{
		MinLng: coord.ToFixed(-125), MinLat: coord.ToFixed(30),
		MaxLng: coord.ToFixed(-70), MaxLat: coord.ToFixed(50),
	}
	names := cityNames(t, f.SelectBbox(q))
	assert.ElementsMatch(t, []string{"seattle", "new york"}, names)
}

func TestSelectBbox_DisjointBoxYieldsNoFeaturesWithoutError(t *testing.T) {
	path := buildTestFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	q := coord.Bounds{
		MinLng: coord.ToFixed(10), MinLat: coord.ToFixed(10),
		MaxLng: coord.ToFixed(11), MaxLat: coord.ToFixed(11),
	}
	names := cityNames(t, f.SelectBbox(q))
	assert.Empty(t, names)
}

func TestSelectAll_StopsEarlyWhenConsumerBreaks(t *testing.T) {
	path := buildTestFile(t)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	count := 0
	for _, err := range f.SelectAll() {
		require.NoError(t, err)
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gmd")
	require.NoError(t, os.WriteFile(path, []byte("not-a-geomedea-file-at-all"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestOpen_RejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.gmd")
	require.NoError(t, os.WriteFile(path, []byte("geomedea"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)
}

func TestOpen_MissingFileReturnsIOError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.gmd"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrIO)
}
