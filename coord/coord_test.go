package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFixed_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
	}{
		{"seattle lng", -122.3321},
		{"seattle lat", 47.6062},
		{"zero", 0},
		{"max lng", 180},
		{"min lat", -90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed := ToFixed(tt.deg)
			got := ToFloat(fixed)
			assert.InDelta(t, tt.deg, got, 1e-7)
		})
	}
}

func TestToFixed_SaturatesInsteadOfWrapping(t *testing.T) {
	assert.Equal(t, int32(2147483647), ToFixed(1e30))
	assert.Equal(t, int32(-2147483648), ToFixed(-1e30))
}

func TestToFixedChecked_OverflowReturnsError(t *testing.T) {
	_, err := ToFixedChecked(1e30)
	require.Error(t, err)
}

func TestBounds_IntersectsInclusiveOnEdges(t *testing.T) {
	a := Bounds{MinLng: 0, MinLat: 0, MaxLng: 10, MaxLat: 10}
	b := Bounds{MinLng: 10, MinLat: 10, MaxLng: 20, MaxLat: 20}
	assert.True(t, Intersects(a, b), "touching corners should count as intersecting")
}

func TestBounds_EmptyNeverIntersects(t *testing.T) {
	e := Empty()
	other := Bounds{MinLng: -10, MinLat: -10, MaxLng: 10, MaxLat: 10}
	assert.True(t, e.IsEmpty())
	assert.False(t, Intersects(e, other))
}

func TestBounds_Union(t *testing.T) {
	a := Bounds{MinLng: -10, MinLat: -5, MaxLng: 0, MaxLat: 5}
	b := Bounds{MinLng: 0, MinLat: -10, MaxLng: 10, MaxLat: 0}
	u := Union(a, b)
	assert.Equal(t, Bounds{MinLng: -10, MinLat: -10, MaxLng: 10, MaxLat: 5}, u)
}

func TestBounds_UnionWithEmptyIsIdentity(t *testing.T) {
	a := Bounds{MinLng: -10, MinLat: -5, MaxLng: 0, MaxLat: 5}
	assert.Equal(t, a, Union(a, Empty()))
	assert.Equal(t, a, Union(Empty(), a))
}

func TestBounds_AntiMeridianWrapIntersects(t *testing.T) {
	// Raw fixed-precision values: MinLng > MaxLng, so this bounds wraps and
	// covers every longitude outside the open interval (-170, 170).
	wrapping := Bounds{MinLng: 170, MinLat: -1, MaxLng: -170, MaxLat: 1}

	eastOfWrap := Bounds{MinLng: 175, MinLat: -1, MaxLng: 179, MaxLat: 1}
	assert.True(t, Intersects(wrapping, eastOfWrap))

	westOfWrap := Bounds{MinLng: -179, MinLat: -1, MaxLng: -175, MaxLat: 1}
	assert.True(t, Intersects(wrapping, westOfWrap))

	farAway := Bounds{MinLng: 0, MinLat: -1, MaxLng: 1, MaxLat: 1}
	assert.False(t, Intersects(wrapping, farAway))
}

func TestBounds_Expand(t *testing.T) {
	b := Empty()
	b = b.Expand(NewLngLat(1, 2))
	b = b.Expand(NewLngLat(-1, 5))
	assert.Equal(t, ToFixed(-1), b.MinLng)
	assert.Equal(t, ToFixed(1), b.MaxLng)
	assert.Equal(t, ToFixed(2), b.MinLat)
	assert.Equal(t, ToFixed(5), b.MaxLat)
}

func TestHilbert_IsDeterministicAndEndianStable(t *testing.T) {
	b := Bounds{MinLng: ToFixed(-122.5), MinLat: ToFixed(47.5), MaxLng: ToFixed(-122.0), MaxLat: ToFixed(48.0)}
	v1 := Hilbert(b, 16)
	v2 := Hilbert(b, 16)
	assert.Equal(t, v1, v2)
}

func TestHilbert_PreservesLocality(t *testing.T) {
	// Two nearby bounds should have closer Hilbert values than a distant one.
	near1 := Bounds{MinLng: ToFixed(-122.3), MinLat: ToFixed(47.6), MaxLng: ToFixed(-122.3), MaxLat: ToFixed(47.6)}
	near2 := Bounds{MinLng: ToFixed(-122.29), MinLat: ToFixed(47.61), MaxLng: ToFixed(-122.29), MaxLat: ToFixed(47.61)}
	far := Bounds{MinLng: ToFixed(151.2), MinLat: ToFixed(-33.8), MaxLng: ToFixed(151.2), MaxLat: ToFixed(-33.8)}

	hNear1 := Hilbert(near1, 16)
	hNear2 := Hilbert(near2, 16)
	hFar := Hilbert(far, 16)

	diffNear := absDiff(hNear1, hNear2)
	diffFar := absDiff(hNear1, hFar)
	assert.Less(t, diffNear, diffFar)
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
