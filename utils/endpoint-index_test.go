package utils_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/bsaid97/go-lane-checker/utils"
)

func TestEndpointIndexHasNeighbor(t *testing.T) {
	ix := utils.NewEndpointIndex(1e-5)
	ix.Add(0, orb.Point{1, 0})
	ix.Add(0, orb.Point{0, 0})
	ix.Add(1, orb.Point{1 + 5e-6, 0})

	// Feature 1's endpoint is within range of feature 0's.
	assert.True(t, ix.HasNeighbor(orb.Point{1 + 5e-6, 0}, 1e-5, 1))
	// Excluding feature 0 leaves nothing nearby.
	assert.False(t, ix.HasNeighbor(orb.Point{1 + 5e-6, 0}, 1e-5, 0))
	// Out of range.
	assert.False(t, ix.HasNeighbor(orb.Point{2, 0}, 1e-5, 1))
}

func TestEndpointIndexStrictInequality(t *testing.T) {
	ix := utils.NewEndpointIndex(1e-5)
	ix.Add(0, orb.Point{0, 0})

	// Distance exactly equal to the radius does not count.
	assert.False(t, ix.HasNeighbor(orb.Point{1e-5, 0}, 1e-5, 1))
	assert.True(t, ix.HasNeighbor(orb.Point{9e-6, 0}, 1e-5, 1))
}

func TestEndpointIndexSelfExclusion(t *testing.T) {
	ix := utils.NewEndpointIndex(1e-5)
	// A closed ring registers the same coordinate twice under one index.
	ix.Add(0, orb.Point{0, 0})
	ix.Add(0, orb.Point{0, 0})

	assert.False(t, ix.HasNeighbor(orb.Point{0, 0}, 1e-5, 0))

	// A coincident endpoint of a different feature does count.
	ix.Add(1, orb.Point{0, 0})
	assert.True(t, ix.HasNeighbor(orb.Point{0, 0}, 1e-5, 0))
}

func TestEndpointIndexCrossesCellBoundaries(t *testing.T) {
	ix := utils.NewEndpointIndex(1e-5)
	// Just either side of a cell boundary.
	ix.Add(0, orb.Point{1e-5 - 1e-9, 0})

	assert.True(t, ix.HasNeighbor(orb.Point{1e-5 + 1e-9, 0}, 1e-6, 1))
}

func TestBoundWithin(t *testing.T) {
	b := orb.LineString{{0, 0}, {1, 1}}.Bound()

	assert.True(t, utils.BoundWithin(b, orb.Point{0.5, 0.5}, 0))
	assert.True(t, utils.BoundWithin(b, orb.Point{1.05, 1}, 0.1))
	assert.False(t, utils.BoundWithin(b, orb.Point{1.2, 1}, 0.1))
	assert.False(t, utils.BoundWithin(b, orb.Point{-0.2, 0.5}, 0.1))
}
