package handlers

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/bsaid97/go-lane-checker/utils"
)

// Issue is one flagged endpoint: an unsnapped line end with a compatible
// feature nearby, i.e. a probable data error rather than a true network
// boundary. Issues are pure observations and are never mutated after
// creation.
type Issue struct {
	WayID     string    `json:"way_id"`
	RoadID    string    `json:"road_id"`
	Coord     orb.Point `json:"coord"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	GapMeters float64   `json:"gap_m"`
}

// CheckOptions are the two distance thresholds of the scan, plus runtime
// knobs. SnapTolerance must stay strictly below StrictRadius.
type CheckOptions struct {
	// SnapTolerance is the distance below which two endpoints count as the
	// same network node.
	SnapTolerance float64
	// StrictRadius is the distance within which an unsnapped endpoint near
	// a compatible geometry is flagged as an unresolved gap.
	StrictRadius float64
	// Workers shards the per-feature scan when > 1; output is identical to
	// the serial scan.
	Workers int
	// Mercator marks the coordinates as web-mercator meters rather than
	// lon/lat degrees (affects only the reported gap size).
	Mercator bool
}

// Defaults are in geographic degrees: the strict radius is roughly one
// meter at typical latitudes.
const (
	DefaultSnapTolerance = 1e-7
	DefaultStrictRadius  = 1e-5
)

func DefaultCheckOptions() CheckOptions {
	return CheckOptions{
		SnapTolerance: DefaultSnapTolerance,
		StrictRadius:  DefaultStrictRadius,
	}
}

// CheckLaneIntegrity validates topological consistency of a lane network:
// it partitions features into centerline and unenclosed-border groups, then
// flags every terminal endpoint that neither snaps to another feature's
// endpoint nor stands clear of all compatible geometries. Groups are
// validated independently; cross-group adjacency is never checked. The
// returned issues follow discovery order, centerline group first.
func CheckLaneIntegrity(features []LaneFeature, opts CheckOptions) ([]Issue, error) {
	if opts.SnapTolerance >= opts.StrictRadius {
		return nil, &ConfigurationError{
			SnapTolerance: opts.SnapTolerance,
			StrictRadius:  opts.StrictRadius,
		}
	}

	groups := Classify(features)
	log.Printf("Classified %d features: %d centerlines, %d unenclosed borders",
		len(features), len(groups.Centerlines), len(groups.Borders))

	issues := []Issue{}
	centerlineIssues, err := scanGroup(groups.Centerlines, "CENTERLINE_GAP", "magenta", opts)
	if err != nil {
		return nil, err
	}
	issues = append(issues, centerlineIssues...)

	borderIssues, err := scanGroup(groups.Borders, "BORDER_GAP", "red", opts)
	if err != nil {
		return nil, err
	}
	issues = append(issues, borderIssues...)

	return issues, nil
}

// groupScan holds the immutable per-group state shared by all workers:
// the feature slice, the endpoint index and per-feature bounds. Workers
// only read it and write into private issue buffers.
type groupScan struct {
	group  []LaneFeature
	label  string
	color  string
	opts   CheckOptions
	index  *utils.EndpointIndex
	bounds []orb.Bound
}

func scanGroup(group []LaneFeature, label, color string, opts CheckOptions) ([]Issue, error) {
	for i := range group {
		if len(group[i].Line) < 2 {
			return nil, &MalformedGeometryError{
				WayID:     group[i].WayID,
				NumPoints: len(group[i].Line),
			}
		}
	}
	if len(group) == 0 {
		return nil, nil
	}

	scan := &groupScan{
		group:  group,
		label:  label,
		color:  color,
		opts:   opts,
		index:  utils.NewEndpointIndex(opts.StrictRadius),
		bounds: make([]orb.Bound, len(group)),
	}
	for i := range group {
		line := group[i].Line
		scan.index.Add(i, line[0])
		scan.index.Add(i, line[len(line)-1])
		scan.bounds[i] = line.Bound()
	}

	if opts.Workers > 1 {
		return scan.runParallel(), nil
	}
	return scan.runSerial(), nil
}

func (s *groupScan) runSerial() []Issue {
	var issues []Issue
	for i := range s.group {
		issues = append(issues, s.endpointIssues(i)...)
	}
	return issues
}

// runParallel shards the outer feature loop and merges per-feature buffers
// back in input order, so the output matches the serial scan exactly.
func (s *groupScan) runParallel() []Issue {
	processor := utils.NewParallelProcessor(s.opts.Workers)
	results := processor.ProcessIndexed(len(s.group), func(i int) interface{} {
		return s.endpointIssues(i)
	}, s.label)

	var issues []Issue
	for _, result := range results {
		issues = append(issues, result.([]Issue)...)
	}
	return issues
}

// endpointIssues evaluates both terminal endpoints of one feature.
func (s *groupScan) endpointIssues(i int) []Issue {
	feat := &s.group[i]
	line := feat.Line

	var issues []Issue
	for _, node := range []orb.Point{line[0], line[len(line)-1]} {
		// 1. Physical snapping check: any other feature terminating within
		// the snap tolerance closes this endpoint. Self-comparison is
		// excluded by feature index, so coincident-but-distinct features
		// still count while a closed ring cannot snap to itself.
		if s.index.HasNeighbor(node, s.opts.SnapTolerance, i) {
			continue
		}

		// 2. Continuity check: an unsnapped endpoint near any part of a
		// compatible geometry with a different way_id is an unresolved gap.
		// Features sharing this way_id cannot close their own gap. With no
		// compatible geometry in range the endpoint is a legitimate network
		// boundary and nothing is reported.
		for j := range s.group {
			ref := &s.group[j]
			if ref.WayID == feat.WayID {
				continue
			}
			if !Compatible(feat.Class, ref.Class) {
				continue
			}
			if !utils.BoundWithin(s.bounds[j], node, s.opts.StrictRadius) {
				continue
			}
			dist, closest := utils.DistanceToLineString(ref.Line, node)
			if dist < s.opts.StrictRadius {
				issues = append(issues, Issue{
					WayID:     feat.WayID,
					RoadID:    feat.RoadID,
					Coord:     node,
					Type:      fmt.Sprintf("%s (%s)", s.label, feat.LaneType),
					Color:     s.color,
					GapMeters: s.gapMeters(node, closest),
				})
				break
			}
		}
	}
	return issues
}

func (s *groupScan) gapMeters(node, closest orb.Point) float64 {
	if s.opts.Mercator {
		return planar.Distance(node, closest)
	}
	return utils.MetersBetween(node, closest)
}
