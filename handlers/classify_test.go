package handlers_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsaid97/go-lane-checker/handlers"
)

func TestParseLaneClass(t *testing.T) {
	tests := []struct {
		raw  string
		want handlers.LaneClass
	}{
		{"centerline", handlers.LaneCenterline},
		{"CenterLine", handlers.LaneCenterline},
		{"road", handlers.LaneRoad},
		{"ROAD", handlers.LaneRoad},
		{"cycle", handlers.LaneCycle},
		{"road_cycle", handlers.LaneRoadCycle},
		{"Road_Cycle", handlers.LaneRoadCycle},
		{"sidewalk", handlers.LaneOther},
		{"cycleway", handlers.LaneOther},
		{"", handlers.LaneOther},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, handlers.ParseLaneClass(tc.raw), "lane_type %q", tc.raw)
	}
}

func TestCompatibilityTable(t *testing.T) {
	tests := []struct {
		a, b handlers.LaneClass
		want bool
	}{
		{handlers.LaneCenterline, handlers.LaneCenterline, true},
		{handlers.LaneRoad, handlers.LaneRoad, true},
		{handlers.LaneCycle, handlers.LaneCycle, true},
		{handlers.LaneRoadCycle, handlers.LaneRoadCycle, true},
		{handlers.LaneCycle, handlers.LaneRoadCycle, true},
		{handlers.LaneRoadCycle, handlers.LaneCycle, true},
		{handlers.LaneRoad, handlers.LaneRoadCycle, false},
		{handlers.LaneRoad, handlers.LaneCycle, false},
		{handlers.LaneCenterline, handlers.LaneRoad, false},
		{handlers.LaneOther, handlers.LaneOther, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, handlers.Compatible(tc.a, tc.b), "%v x %v", tc.a, tc.b)
	}
}

func TestClassifyPartition(t *testing.T) {
	features := []handlers.LaneFeature{
		lane("w1", "centerline", orb.Point{0, 0}, orb.Point{1, 0}),
		lane("w2", "road", orb.Point{0, 1}, orb.Point{1, 1}),
		lane("w3", "cycle", orb.Point{0, 2}, orb.Point{1, 2}),
		lane("w4", "road_cycle", orb.Point{0, 3}, orb.Point{1, 3}),
		lane("w5", "sidewalk", orb.Point{0, 4}, orb.Point{1, 4}),
		lane("w6", "", orb.Point{0, 5}, orb.Point{1, 5}),
	}

	groups := handlers.Classify(features)
	require.Len(t, groups.Centerlines, 1)
	assert.Equal(t, "w1", groups.Centerlines[0].WayID)

	require.Len(t, groups.Borders, 3)
	assert.Equal(t, "w2", groups.Borders[0].WayID)
	assert.Equal(t, "w3", groups.Borders[1].WayID)
	assert.Equal(t, "w4", groups.Borders[2].WayID)
}

func TestClassifyAreaTypeTokens(t *testing.T) {
	unenclosed := []string{"", "null", "none"}
	for _, areaType := range unenclosed {
		f := lane("w1", "road", orb.Point{0, 0}, orb.Point{1, 0})
		f.AreaType = areaType
		groups := handlers.Classify([]handlers.LaneFeature{f})
		assert.Len(t, groups.Borders, 1, "area_type %q should be unenclosed", areaType)
	}

	f := lane("w1", "road", orb.Point{0, 0}, orb.Point{1, 0})
	f.AreaType = "parking_a1"
	groups := handlers.Classify([]handlers.LaneFeature{f})
	assert.Empty(t, groups.Borders)
}

func TestParseLaneFeatures(t *testing.T) {
	payload := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 0]]},
				"properties": {"lane_type": "Centerline", "way_id": 42, "road_id": "R7"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "LineString", "coordinates": [[0, 1], [1, 1]]},
				"properties": {"lane_type": "road", "area_type": "NULL"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [5, 5]},
				"properties": {"lane_type": "centerline"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "LineString", "coordinates": [[0, 2], [1, 2]]},
				"properties": {}
			}
		]
	}`)

	features, skipped, err := handlers.ParseLaneFeatures(payload, false, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped, "the Point feature is skipped")
	require.Len(t, features, 3)

	assert.Equal(t, handlers.LaneCenterline, features[0].Class)
	assert.Equal(t, "centerline", features[0].LaneType)
	assert.Equal(t, "42", features[0].WayID, "numeric way_id stringified")
	assert.Equal(t, "R7", features[0].RoadID)

	assert.Equal(t, handlers.LaneRoad, features[1].Class)
	assert.Equal(t, "null", features[1].AreaType)
	assert.True(t, features[1].Unenclosed())
	assert.Equal(t, "", features[1].WayID)

	// Missing lane_type matches no recognized family.
	assert.Equal(t, handlers.LaneOther, features[2].Class)
	groups := handlers.Classify(features)
	assert.Len(t, groups.Centerlines, 1)
	assert.Len(t, groups.Borders, 1)
}

func TestParseLaneFeaturesRejectsGarbage(t *testing.T) {
	_, _, err := handlers.ParseLaneFeatures([]byte(`{"type": "nope`), false, -1)
	assert.Error(t, err)
}

func TestParseLaneFeaturesTruncation(t *testing.T) {
	payload := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "LineString", "coordinates": [[0.123456789, 0], [1, 0]]},
				"properties": {"lane_type": "centerline"}
			}
		]
	}`)

	features, _, err := handlers.ParseLaneFeatures(payload, false, 7)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, 0.1234568, features[0].Line[0].X())
}
