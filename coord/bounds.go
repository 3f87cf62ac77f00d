package coord

// Bounds is an axis-aligned bounding box in fixed-precision WGS84 degrees.
//
// Anti-meridian policy (spec open question, resolved): a Bounds with
// MinLng > MaxLng is interpreted as wrapping through ±180°, covering
// [MinLng, 180] ∪ [-180, MaxLng]. Emptiness is signaled independently via
// the latitude pair (MinLat > MaxLat), since latitude never wraps — this
// keeps "empty" and "wraps longitude" unambiguous from each other.
//
// geomedea's own bounds accumulation (unioning a feature's points, or
// unioning page bounds) never synthesizes a wrapping Bounds on its own;
// wrapping bounds are only produced if the source data already encodes
// one that way. Intersects handles a wrapping input on either side. Union
// and Expand are plain componentwise min/max: a wrap survives Union when
// both inputs wrap or one is empty, but the union of a wrapping and a
// non-wrapping bounds does not in general cover both.
type Bounds struct {
	MinLng, MinLat, MaxLng, MaxLat int32
}

// Empty returns the canonical empty bounds.
func Empty() Bounds {
	return Bounds{MinLng: 0, MinLat: 1, MaxLng: 0, MaxLat: 0}
}

// IsEmpty reports whether b is the empty sentinel (MinLat > MaxLat).
func (b Bounds) IsEmpty() bool {
	return b.MinLat > b.MaxLat
}

// WrapsLng reports whether b crosses the anti-meridian.
func (b Bounds) WrapsLng() bool {
	return b.MinLng > b.MaxLng
}

// FromPoint returns the degenerate bounds containing exactly one point.
func FromPoint(c LngLat) Bounds {
	return Bounds{MinLng: c.LngE7, MinLat: c.LatE7, MaxLng: c.LngE7, MaxLat: c.LatE7}
}

// Expand grows b (in place semantics via return value) to include c, using
// plain min/max — it never introduces a longitude wrap on its own.
func (b Bounds) Expand(c LngLat) Bounds {
	if b.IsEmpty() {
		return FromPoint(c)
	}
	return Bounds{
		MinLng: min32(b.MinLng, c.LngE7),
		MinLat: min32(b.MinLat, c.LatE7),
		MaxLng: max32(b.MaxLng, c.LngE7),
		MaxLat: max32(b.MaxLat, c.LatE7),
	}
}

// Union returns the bounds covering both a and b.
func Union(a, b Bounds) Bounds {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return Bounds{
		MinLng: min32(a.MinLng, b.MinLng),
		MinLat: min32(a.MinLat, b.MinLat),
		MaxLng: max32(a.MaxLng, b.MaxLng),
		MaxLat: max32(a.MaxLat, b.MaxLat),
	}
}

// Intersects reports whether a and b overlap, inclusive of shared edges,
// honoring the anti-meridian-wrap interpretation of each.
func Intersects(a, b Bounds) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	if a.MinLat > b.MaxLat || b.MinLat > a.MaxLat {
		return false
	}
	return lngIntersects(a.MinLng, a.MaxLng, b.MinLng, b.MaxLng)
}

func lngIntersects(aMin, aMax, bMin, bMax int32) bool {
	aWraps := aMin > aMax
	bWraps := bMin > bMax
	switch {
	case !aWraps && !bWraps:
		return aMin <= bMax && bMin <= aMax
	case aWraps && !bWraps:
		return bMax >= aMin || bMin <= aMax
	case !aWraps && bWraps:
		return aMax >= bMin || aMin <= bMax
	default:
		// Both wrap, so both cover the antimeridian point; they always intersect.
		return true
	}
}

// Centroid returns the planar (non-geodesic) midpoint of b, used only for
// Hilbert ordering where a consistent tie-break matters more than geodesic
// accuracy. A wrapping bounds gets a midpoint on its covered arc.
func (b Bounds) Centroid() LngLat {
	// For a wrapping bounds, the arithmetic mean of MinLng/MaxLng falls inside
	// the excluded middle rather than the covered arc; shift it by a half
	// turn so the centroid still lands within the bounds.
	midLng := (int64(b.MinLng) + int64(b.MaxLng)) / 2
	if b.WrapsLng() {
		midLng += 1800000000 // 180 degrees in fixed-precision units, mod-wrapped below
		const fullTurn = 3600000000
		if midLng > 1800000000 {
			midLng -= fullTurn
		}
	}
	midLat := (int64(b.MinLat) + int64(b.MaxLat)) / 2
	return LngLat{LngE7: int32(midLng), LatE7: int32(midLat)}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
