package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bsaid97/go-lane-checker/config"
	"github.com/bsaid97/go-lane-checker/utils"
)

// IntegrityReport is the run summary handed to a renderer or report
// consumer: the ordered issue list plus the counts and thresholds the run
// used.
type IntegrityReport struct {
	IssueCount      int       `json:"issue_count" bson:"issue_count"`
	FeatureCount    int       `json:"feature_count" bson:"feature_count"`
	SkippedCount    int       `json:"skipped_count" bson:"skipped_count"`
	CenterlineCount int       `json:"centerline_count" bson:"centerline_count"`
	BorderCount     int       `json:"border_count" bson:"border_count"`
	SnapTolerance   float64   `json:"snap_tolerance" bson:"snap_tolerance"`
	StrictRadius    float64   `json:"strict_radius" bson:"strict_radius"`
	CheckedAt       time.Time `json:"checked_at" bson:"checked_at"`
	Issues          []Issue   `json:"issues" bson:"issues"`
}

// BuildReport assembles the summary for one finished pass.
func BuildReport(features []LaneFeature, skipped int, issues []Issue, opts CheckOptions) IntegrityReport {
	groups := Classify(features)
	return IntegrityReport{
		IssueCount:      len(issues),
		FeatureCount:    len(features),
		SkippedCount:    skipped,
		CenterlineCount: len(groups.Centerlines),
		BorderCount:     len(groups.Borders),
		SnapTolerance:   opts.SnapTolerance,
		StrictRadius:    opts.StrictRadius,
		CheckedAt:       time.Now().UTC(),
		Issues:          issues,
	}
}

// IssuePoints converts the report's issues into the neutral record the
// shapefile writer takes.
func (r *IntegrityReport) IssuePoints() []utils.IssuePoint {
	points := make([]utils.IssuePoint, 0, len(r.Issues))
	for _, issue := range r.Issues {
		points = append(points, utils.IssuePoint{
			X:         issue.Coord.X(),
			Y:         issue.Coord.Y(),
			WayID:     issue.WayID,
			RoadID:    issue.RoadID,
			Type:      issue.Type,
			Color:     issue.Color,
			GapMeters: issue.GapMeters,
		})
	}
	return points
}

// SaveReport inserts the finished report into the lane_reports collection
// when a Mongo connection string is configured. Persistence failures are
// logged, not fatal: the report already went back to the caller.
func SaveReport(report IntegrityReport) {
	if config.MongoString == "" {
		return
	}

	db, err := config.MongoConnect(config.DBName)
	if err != nil {
		log.Printf("Warning: failed to connect to MongoDB: %v", err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Client().Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.Collection("lane_reports").InsertOne(ctx, report)
	if err != nil {
		log.Printf("Warning: failed to store report: %v", err)
		return
	}
	fmt.Println("Report stored with id", result.InsertedID)
}
