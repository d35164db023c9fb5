package handlers_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsaid97/go-lane-checker/handlers"
)

func TestBuildReport(t *testing.T) {
	features := []handlers.LaneFeature{
		lane("w1", "centerline", orb.Point{0, 0}, orb.Point{1, 0}),
		lane("w2", "centerline", orb.Point{1 + 5e-6, 0}, orb.Point{2, 0}),
		lane("w3", "road", orb.Point{0, 1}, orb.Point{1, 1}),
		lane("w4", "sidewalk", orb.Point{0, 2}, orb.Point{1, 2}),
	}

	opts := handlers.DefaultCheckOptions()
	issues, err := handlers.CheckLaneIntegrity(features, opts)
	require.NoError(t, err)

	report := handlers.BuildReport(features, 1, issues, opts)
	assert.Equal(t, len(issues), report.IssueCount)
	assert.Equal(t, 4, report.FeatureCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, 2, report.CenterlineCount)
	assert.Equal(t, 1, report.BorderCount)
	assert.Equal(t, opts.SnapTolerance, report.SnapTolerance)
	assert.Equal(t, opts.StrictRadius, report.StrictRadius)
	assert.False(t, report.CheckedAt.IsZero())
}

func TestIssuePoints(t *testing.T) {
	report := handlers.IntegrityReport{
		Issues: []handlers.Issue{
			{
				WayID:     "w1",
				RoadID:    "r1",
				Coord:     orb.Point{8.54, 47.37},
				Type:      "CENTERLINE_GAP (centerline)",
				Color:     "magenta",
				GapMeters: 0.42,
			},
		},
	}

	points := report.IssuePoints()
	require.Len(t, points, 1)
	assert.Equal(t, 8.54, points[0].X)
	assert.Equal(t, 47.37, points[0].Y)
	assert.Equal(t, "w1", points[0].WayID)
	assert.Equal(t, "magenta", points[0].Color)
	assert.Equal(t, 0.42, points[0].GapMeters)
}
