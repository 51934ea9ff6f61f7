package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// --- Ring Helpers ---

// RingFromPositions builds a ring from [lon, lat, ...] positions. Any third
// ordinate is ignored; callers are expected to have checked len(p) >= 2.
func RingFromPositions(positions [][]float64) orb.Ring {
	ring := make(orb.Ring, 0, len(positions))
	for _, p := range positions {
		ring = append(ring, orb.Point{p[0], p[1]})
	}
	return ring
}

// DistinctVertices counts vertices of the ring ignoring a closing point equal
// to the first one and consecutive duplicates.
func DistinctVertices(ring orb.Ring) int {
	n := len(ring)
	if n == 0 {
		return 0
	}
	if n > 1 && ring[0].Equal(ring[n-1]) {
		n--
	}
	count := 1
	for i := 1; i < n; i++ {
		if !ring[i].Equal(ring[i-1]) {
			count++
		}
	}
	return count
}

// IsDegenerate reports whether the ring cannot enclose an area.
func IsDegenerate(ring orb.Ring) bool {
	return DistinctVertices(ring) < 3
}

// RoughArea returns the planar shoelace area of the ring in square degrees.
// Good enough for logging and ordering, not for measurement.
func RoughArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}

	// --- Handle Dateline Crossing ---
	// Unwrap longitudes so consecutive vertices never jump by more than
	// 180 degrees, then run the plain shoelace formula.
	lons := make([]float64, len(ring))
	lons[0] = ring[0][0]
	for i := 1; i < len(ring); i++ {
		d := ring[i][0] - ring[i-1][0]
		if d > 180 {
			d -= 360
		} else if d < -180 {
			d += 360
		}
		lons[i] = lons[i-1] + d
	}

	var area float64
	j := len(ring) - 1

	for i := 0; i < len(ring); i++ {
		area += (lons[j] * ring[i][1]) - (lons[i] * ring[j][1])
		j = i
	}

	return math.Abs(area / 2.0)
}

// Extent returns the bounding box of every non-empty ring.
// ok is false when all rings are empty.
func Extent(rings []orb.Ring) (b orb.Bound, ok bool) {
	for _, r := range rings {
		if len(r) == 0 {
			continue
		}
		if !ok {
			b = r.Bound()
			ok = true
			continue
		}
		b = b.Union(r.Bound())
	}
	return b, ok
}
