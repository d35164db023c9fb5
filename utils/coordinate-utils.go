package utils

import (
	"math"

	"github.com/paulmach/orb"
)

var PRECISION int = 7

// TruncateLineString rounds every coordinate of the line to the given
// number of decimals. Sources that went through lossy serialization carry
// sub-precision noise; rounding before the scan keeps endpoints that were
// meant to coincide inside the snap tolerance.
func TruncateLineString(line orb.LineString, precision uint) orb.LineString {
	out := make(orb.LineString, len(line))
	for i, p := range line {
		x, y := truncateCoordinates(p.X(), p.Y(), precision)
		out[i] = orb.Point{x, y}
	}
	return out
}

func truncateCoordinates(x float64, y float64, precision uint) (float64, float64) {
	return roundFloat(x, precision), roundFloat(y, precision)
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
