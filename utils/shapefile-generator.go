package utils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
)

// IssuePoint is one flagged endpoint in the shape expected by the
// shapefile writer. Kept free of the handlers types so the export layer
// can be reused by any report producer.
type IssuePoint struct {
	X, Y      float64
	WayID     string
	RoadID    string
	Type      string
	Color     string
	GapMeters float64
}

// GenerateIssueReportZip creates a zip containing the JSON report and a
// POINT shapefile of the flagged endpoints, for loading into GIS tools
// next to the source data.
func GenerateIssueReportZip(jsonReport []byte, points []IssuePoint) ([]byte, error) {
	var zipBuffer bytes.Buffer
	zipWriter := zip.NewWriter(&zipBuffer)

	jsonFile, err := zipWriter.Create("lane_issues.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON file in zip: %v", err)
	}
	if _, err = jsonFile.Write(jsonReport); err != nil {
		return nil, fmt.Errorf("failed to write JSON data to zip: %v", err)
	}

	if len(points) > 0 {
		if err = addIssueShapefileToZip(zipWriter, points); err != nil {
			return nil, fmt.Errorf("failed to add shapefile to zip: %v", err)
		}
	}

	if err = zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip writer: %v", err)
	}

	return zipBuffer.Bytes(), nil
}

// addIssueShapefileToZip writes the shapefile components into a temp
// directory and copies them into the zip.
func addIssueShapefileToZip(zipWriter *zip.Writer, points []IssuePoint) error {
	tempDir, err := os.MkdirTemp("", "shapefile_")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	shapefilePath := filepath.Join(tempDir, "lane_issues.shp")

	if err := generateIssueShapefile(shapefilePath, points); err != nil {
		return fmt.Errorf("failed to generate shapefile: %v", err)
	}

	extensions := []string{".shp", ".shx", ".dbf"}
	for _, ext := range extensions {
		filePath := strings.TrimSuffix(shapefilePath, ".shp") + ext

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			continue
		}

		fileContent, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read shapefile component %s: %v", ext, err)
		}

		zipFile, err := zipWriter.Create("lane_issues" + ext)
		if err != nil {
			return fmt.Errorf("failed to create %s file in zip: %v", ext, err)
		}

		if _, err = zipFile.Write(fileContent); err != nil {
			return fmt.Errorf("failed to write %s data to zip: %v", ext, err)
		}
	}

	return nil
}

// generateIssueShapefile creates a POINT shapefile from the flagged
// endpoints. Field names are capped at 10 characters (DBF limitation).
func generateIssueShapefile(shapefilePath string, points []IssuePoint) error {
	if len(points) == 0 {
		return fmt.Errorf("no issues to write to shapefile")
	}

	shape, err := shp.Create(shapefilePath, shp.POINT)
	if err != nil {
		return fmt.Errorf("failed to create shapefile: %v", err)
	}
	defer shape.Close()

	fields := []shp.Field{
		shp.StringField("WAY_ID", 50),
		shp.StringField("ROAD_ID", 50),
		shp.StringField("TYPE", 64),
		shp.StringField("COLOR", 10),
		shp.FloatField("GAP_M", 15, 6),
	}
	shape.SetFields(fields)

	for i, point := range points {
		shape.Write(&shp.Point{X: point.X, Y: point.Y})

		shape.WriteAttribute(i, 0, point.WayID)
		shape.WriteAttribute(i, 1, point.RoadID)
		shape.WriteAttribute(i, 2, point.Type)
		shape.WriteAttribute(i, 3, point.Color)
		shape.WriteAttribute(i, 4, point.GapMeters)
	}

	return nil
}
