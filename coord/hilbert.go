package coord

// Hilbert computes the Hilbert curve value of bounds' centroid, mapped onto
// a 2^order × 2^order grid spanning WGS84 (order=16 is the reference). This
// is the sort key used to order pages so that spatial neighbors land near
// each other in the file and in the packed R-tree (spec §4.1, §4.4).
func Hilbert(b Bounds, order uint8) uint64 {
	c := b.Centroid()
	side := uint32(1) << order

	x := gridCoord(c.Lng(), -180, 180, side)
	y := gridCoord(c.Lat(), -90, 90, side)

	return xy2d(side, x, y)
}

// gridCoord maps a degree value in [lo, hi] onto [0, side-1], clamping out-of-range
// input (e.g. the saturated ±180/±90 edges) rather than overflowing.
func gridCoord(deg, lo, hi float64, side uint32) uint32 {
	frac := (deg - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac >= 1 {
		frac = 1 - 1e-12
	}
	v := uint32(frac * float64(side))
	if v >= side {
		v = side - 1
	}
	return v
}

// xy2d converts (x, y) grid coordinates into their distance along a Hilbert
// curve of the given side length (must be a power of two). This is the
// standard bit-rotation formulation of the curve.
func xy2d(side, x, y uint32) uint64 {
	var d uint64
	for s := side / 2; s > 0; s /= 2 {
		var rx, ry uint32
		if x&s > 0 {
			rx = 1
		}
		if y&s > 0 {
			ry = 1
		}
		d += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		x, y = rotate(side, x, y, rx, ry)
	}
	return d
}

// rotate performs the Hilbert curve's quadrant rotation/reflection step.
func rotate(side, x, y, rx, ry uint32) (uint32, uint32) {
	if ry == 0 {
		if rx == 1 {
			x = side - 1 - x
			y = side - 1 - y
		}
		x, y = y, x
	}
	return x, y
}
