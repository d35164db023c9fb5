package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geos"
)

type GeometryError struct {
	Ref          int    `json:"ref"`
	WayID        string `json:"way_id,omitempty"`
	ErrorMessage string `json:"errorMessage"`
}

type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// CheckGeometry runs a GEOS validity report over a raw feature collection
// before an integrity scan: unparseable geometries, invalid linework,
// non-line geometry types and degenerate lines are flagged with the GEOS
// reason. The integrity scan itself only ever sees LineStrings.
func CheckGeometry(payload []byte) ([]GeometryError, error) {
	var featureCollection rawFeatureCollection
	if err := json.Unmarshal(payload, &featureCollection); err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %v", err)
	}

	fmt.Println("Found Features:", len(featureCollection.Features))

	var errors []GeometryError
	for i, feature := range featureCollection.Features {
		wayID := ""
		if v, ok := feature.Properties["way_id"]; ok && v != nil {
			wayID = fmt.Sprintf("%v", v)
		}

		shape, err := geos.NewGeomFromGeoJSON(string(feature.Geometry))
		if err != nil {
			errors = append(errors, GeometryError{
				Ref: i, WayID: wayID,
				ErrorMessage: fmt.Sprintf("unparseable geometry: %v", err),
			})
			continue
		}

		if shape.TypeID() != geos.TypeIDLineString {
			errors = append(errors, GeometryError{
				Ref: i, WayID: wayID,
				ErrorMessage: fmt.Sprintf("geometry type %s is not a LineString", shape.Type()),
			})
			continue
		}

		if !shape.IsValid() {
			errors = append(errors, GeometryError{
				Ref: i, WayID: wayID,
				ErrorMessage: shape.IsValidReason(),
			})
			continue
		}

		if shape.CoordSeq().Size() < 2 {
			errors = append(errors, GeometryError{
				Ref: i, WayID: wayID,
				ErrorMessage: "LineString has fewer than 2 coordinates",
			})
		}
	}
	return errors, nil
}
