// Package coord implements geomedea's fixed-precision coordinate codec (C1):
// converting WGS84 degrees to/from the int32 fixed-point representation
// stored on disk, bounds arithmetic, and the Hilbert curve value used to
// order pages in the packed R-tree.
package coord

import (
	"math"

	"github.com/michaelkirk/geomedea/errs"
)

// FixedScale is the scale factor between degrees and the on-disk int32
// representation: i32 = round(degrees * FixedScale). It yields roughly
// 1.1cm of precision at the equator.
const FixedScale = 1e7

// LngLat is a single WGS84 coordinate stored at fixed precision.
type LngLat struct {
	LngE7 int32
	LatE7 int32
}

// ToFixed converts a degree value to its fixed-precision int32 representation.
// It rounds half-to-even and saturates at int32 limits rather than wrapping,
// per spec.
func ToFixed(deg float64) int32 {
	scaled := deg * FixedScale
	rounded := math.RoundToEven(scaled)
	if rounded > math.MaxInt32 {
		return math.MaxInt32
	}
	if rounded < math.MinInt32 {
		return math.MinInt32
	}
	return int32(rounded)
}

// ToFixedChecked is like ToFixed but reports errs.ErrCoordinateOverflow instead
// of saturating, for callers (the writer) that want to reject out-of-range
// input rather than silently clamp it.
func ToFixedChecked(deg float64) (int32, error) {
	scaled := deg * FixedScale
	rounded := math.RoundToEven(scaled)
	if rounded > math.MaxInt32 || rounded < math.MinInt32 {
		return 0, errs.ErrCoordinateOverflow
	}
	return int32(rounded), nil
}

// ToFloat converts a fixed-precision int32 back to degrees.
func ToFloat(fixed int32) float64 {
	return float64(fixed) / FixedScale
}

// NewLngLat builds a LngLat from floating-point degrees.
func NewLngLat(lng, lat float64) LngLat {
	return LngLat{LngE7: ToFixed(lng), LatE7: ToFixed(lat)}
}

// Lng returns the longitude in degrees.
func (c LngLat) Lng() float64 { return ToFloat(c.LngE7) }

// Lat returns the latitude in degrees.
func (c LngLat) Lat() float64 { return ToFloat(c.LatE7) }
