package utils

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EndpointIndex is a grid-cell index over feature endpoints, used to answer
// "does any other feature terminate within radius of this point". It is
// built fresh for one validation pass and discarded; it does not persist
// across calls.
type EndpointIndex struct {
	cellSize float64
	grid     map[string][]indexedEndpoint
}

type indexedEndpoint struct {
	FeatureIndex int
	Point        orb.Point
}

func NewEndpointIndex(cellSize float64) *EndpointIndex {
	return &EndpointIndex{
		cellSize: cellSize,
		grid:     make(map[string][]indexedEndpoint),
	}
}

// Add registers one terminal point of the feature at featureIndex.
func (ix *EndpointIndex) Add(featureIndex int, p orb.Point) {
	key := ix.cellKeyFor(p)
	ix.grid[key] = append(ix.grid[key], indexedEndpoint{FeatureIndex: featureIndex, Point: p})
}

// HasNeighbor reports whether any endpoint of a feature other than
// excludeFeature lies strictly within radius of p. Endpoints of the
// excluded feature never count, even when they coincide with p (a closed
// ring cannot snap to itself).
func (ix *EndpointIndex) HasNeighbor(p orb.Point, radius float64, excludeFeature int) bool {
	minCellX := int(math.Floor((p.X() - radius) / ix.cellSize))
	minCellY := int(math.Floor((p.Y() - radius) / ix.cellSize))
	maxCellX := int(math.Floor((p.X() + radius) / ix.cellSize))
	maxCellY := int(math.Floor((p.Y() + radius) / ix.cellSize))

	for x := minCellX; x <= maxCellX; x++ {
		for y := minCellY; y <= maxCellY; y++ {
			cell, exists := ix.grid[getCellKey(x, y)]
			if !exists {
				continue
			}
			for _, candidate := range cell {
				if candidate.FeatureIndex == excludeFeature {
					continue
				}
				if planar.Distance(p, candidate.Point) < radius {
					return true
				}
			}
		}
	}
	return false
}

func (ix *EndpointIndex) cellKeyFor(p orb.Point) string {
	return getCellKey(int(math.Floor(p.X()/ix.cellSize)), int(math.Floor(p.Y()/ix.cellSize)))
}

func getCellKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// BoundWithin reports whether p lies inside b expanded by radius on every
// side. Used as a bounding-box pre-filter before the exact
// distance-to-geometry test; it never changes a pass/fail outcome, only
// skips geometries that cannot be in range.
func BoundWithin(b orb.Bound, p orb.Point, radius float64) bool {
	return p.X() >= b.Min.X()-radius && p.X() <= b.Max.X()+radius &&
		p.Y() >= b.Min.Y()-radius && p.Y() <= b.Max.Y()+radius
}
