package utils

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DistanceToLineString returns the planar distance from p to the nearest
// point anywhere along ls (not just its vertices), together with that
// nearest point. ls must have at least 2 points.
func DistanceToLineString(ls orb.LineString, p orb.Point) (float64, orb.Point) {
	best := math.Inf(1)
	var bestPoint orb.Point
	for i := 0; i+1 < len(ls); i++ {
		c := ClosestOnSegment(ls[i], ls[i+1], p)
		if d := planar.Distance(p, c); d < best {
			best = d
			bestPoint = c
		}
	}
	return best, bestPoint
}

// ClosestOnSegment projects p onto the segment a-b, clamped to the
// segment's extent.
func ClosestOnSegment(a, b, p orb.Point) orb.Point {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	if dx == 0 && dy == 0 {
		return a
	}

	u := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / (dx*dx + dy*dy)
	u = math.Max(0, math.Min(1, u))

	return orb.Point{a.X() + u*dx, a.Y() + u*dy}
}

// CalculateWGS84ToleranceFromMeters converts meters to WGS84 degrees
// For WGS84, 1 degree ≈ 111,000 meters at the equator
func CalculateWGS84ToleranceFromMeters(meters float64) float64 {
	const metersPerDegree = 111000.0
	return meters / metersPerDegree
}

const earthRadiusMeters = 6371010.0

// MetersBetween approximates the geodesic distance in meters between two
// lon/lat points. Used only for the human-readable gap size on issues;
// all threshold comparisons stay planar in the source units.
func MetersBetween(a, b orb.Point) float64 {
	la := s2.LatLngFromDegrees(a.Y(), a.X())
	lb := s2.LatLngFromDegrees(b.Y(), b.X())
	return la.Distance(lb).Radians() * earthRadiusMeters
}
