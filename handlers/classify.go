package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/bsaid97/go-lane-checker/utils"
)

// LaneClass is the recognized semantic class of a lane feature.
type LaneClass int

const (
	LaneOther LaneClass = iota
	LaneCenterline
	LaneRoad
	LaneCycle
	LaneRoadCycle
)

func (c LaneClass) String() string {
	switch c {
	case LaneCenterline:
		return "centerline"
	case LaneRoad:
		return "road"
	case LaneCycle:
		return "cycle"
	case LaneRoadCycle:
		return "road_cycle"
	}
	return "other"
}

// ParseLaneClass normalizes a raw lane_type value into a LaneClass.
// Matching is case-insensitive; anything outside the recognized set
// maps to LaneOther and is ignored by validation.
func ParseLaneClass(raw string) LaneClass {
	switch strings.ToLower(raw) {
	case "centerline":
		return LaneCenterline
	case "road":
		return LaneRoad
	case "cycle":
		return LaneCycle
	case "road_cycle":
		return LaneRoadCycle
	}
	return LaneOther
}

// cycleFamily reports whether the class belongs to the cycle family
// (anything whose lane_type contains "cycle").
func (c LaneClass) cycleFamily() bool {
	return c == LaneCycle || c == LaneRoadCycle
}

// Compatible implements the continuity compatibility table: centerlines
// continue centerlines, cycle-family lanes continue cycle-family lanes,
// and plain roads continue plain roads. Note road and road_cycle are NOT
// compatible with each other.
func Compatible(a, b LaneClass) bool {
	switch {
	case a == LaneCenterline && b == LaneCenterline:
		return true
	case a.cycleFamily() && b.cycleFamily():
		return true
	case a == LaneRoad && b == LaneRoad:
		return true
	}
	return false
}

// LaneFeature is one input line geometry with its normalized properties.
// The geometry is immutable once loaded.
type LaneFeature struct {
	Line     orb.LineString
	Class    LaneClass
	LaneType string // normalized (lower-cased) raw lane_type, used in issue labels
	AreaType string
	WayID    string // "" when absent
	RoadID   string // "" when absent
}

// Unenclosed reports whether the feature's area_type is absent or a
// null-like token, i.e. the border is not owned by a region.
func (f *LaneFeature) Unenclosed() bool {
	switch f.AreaType {
	case "", "null", "none":
		return true
	}
	return false
}

// LaneGroups is the partition of the input relevant to validation.
// Groups are disjoint and each is validated independently.
type LaneGroups struct {
	Centerlines []LaneFeature
	Borders     []LaneFeature
}

// Classify partitions features into the centerline group and the
// unenclosed-border group, preserving input order. Features matching
// neither predicate are ignored.
func Classify(features []LaneFeature) LaneGroups {
	var groups LaneGroups
	for _, f := range features {
		switch {
		case f.Class == LaneCenterline:
			groups.Centerlines = append(groups.Centerlines, f)
		case (f.Class == LaneRoad || f.Class.cycleFamily()) && f.Unenclosed():
			groups.Borders = append(groups.Borders, f)
		}
	}
	return groups
}

// ParseLaneFeatures decodes a GeoJSON feature collection into LaneFeatures.
// Non-LineString geometries are skipped (they are background data for a
// renderer, not validation input). With mercator set, coordinates are
// reprojected from WGS84 to web-mercator meters so tolerances can be given
// in meters. A non-negative truncatePrecision rounds coordinates first,
// the same normalization applied before snapping polygon boundaries.
func ParseLaneFeatures(payload []byte, mercator bool, truncatePrecision int) ([]LaneFeature, int, error) {
	fc, err := geojson.UnmarshalFeatureCollection(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse feature collection: %v", err)
	}

	features := make([]LaneFeature, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		line, ok := f.Geometry.(orb.LineString)
		if !ok {
			skipped++
			continue
		}
		if truncatePrecision >= 0 {
			line = utils.TruncateLineString(line, uint(truncatePrecision))
		}
		if mercator {
			line = utils.LineToMercator(line)
		}

		laneType := strings.ToLower(propString(f.Properties, "lane_type"))
		features = append(features, LaneFeature{
			Line:     line,
			Class:    ParseLaneClass(laneType),
			LaneType: laneType,
			AreaType: strings.ToLower(propString(f.Properties, "area_type")),
			WayID:    propString(f.Properties, "way_id"),
			RoadID:   propString(f.Properties, "road_id"),
		})
	}
	return features, skipped, nil
}

// propString stringifies an optional property. GeoJSON identifiers show up
// as strings or JSON numbers depending on the producer; integral numbers
// are rendered without a decimal point so "42" and 42 compare equal.
func propString(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
