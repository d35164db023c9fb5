package handlers

import "fmt"

// ConfigurationError reports a threshold configuration that would flag
// every unsnapped endpoint within the strict radius. The snap tolerance
// must stay below the strict radius; there is no compensating check for
// the reversed order.
type ConfigurationError struct {
	SnapTolerance float64
	StrictRadius  float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("snap tolerance %g must be smaller than strict radius %g",
		e.SnapTolerance, e.StrictRadius)
}

// MalformedGeometryError reports a feature whose geometry has fewer than
// two coordinates, which leaves its endpoints undefined. The whole pass
// for the group is aborted rather than silently dropping the feature.
type MalformedGeometryError struct {
	WayID     string
	NumPoints int
}

func (e *MalformedGeometryError) Error() string {
	return fmt.Sprintf("malformed geometry for way_id %q: %d coordinate(s), need at least 2",
		e.WayID, e.NumPoints)
}
