package utils

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// LineToMercator reprojects a WGS84 lon/lat line into web-mercator meters.
// Running the scan in mercator lets snap tolerance and strict radius be
// given directly in meters instead of degrees.
func LineToMercator(line orb.LineString) orb.LineString {
	return project.LineString(line.Clone(), project.WGS84.ToMercator)
}

// PointToWGS84 converts a mercator coordinate back to lon/lat, so issues
// found in a mercator run still land on the map for the renderer.
func PointToWGS84(p orb.Point) orb.Point {
	return project.Mercator.ToWGS84(p)
}
