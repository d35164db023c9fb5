package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tj/go-spin"

	"github.com/bsaid97/go-lane-checker/handlers"
	"github.com/bsaid97/go-lane-checker/utils"
)

func main() {
	// File mode: go-lane-checker check <file.geojson> [flags]
	if len(os.Args) > 1 && os.Args[1] == "check" {
		runFileCheck(os.Args[2:])
		return
	}

	log.Printf("=== Starting Go Lane Checker Server ===")

	// Register handlers
	http.HandleFunc("/check-lane-integrity", laneIntegrityHandler)
	http.HandleFunc("/check-geometry", checkGeometryHandler)

	log.Printf("Registered all HTTP handlers")

	// Start the HTTP server on port 8080
	log.Printf("Server is listening on port 8080...")
	fmt.Println("Server is listening on port 8080...")

	err := http.ListenAndServe(":8080", nil)
	if err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) string {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method, only POST allowed", http.StatusMethodNotAllowed)
		return ""
	}

	// Read the request body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusInternalServerError)
		return ""
	}
	defer r.Body.Close()

	return string(body)
}

// laneIntegrityHandler runs the full pipeline: parse features, scan both
// groups, build the report. Accepts a direct GeoJSON body or a multipart
// form (file upload, inline featureCollection or filepath), with the
// thresholds overridable per request.
func laneIntegrityHandler(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("PANIC recovered in laneIntegrityHandler: %v", rec)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}()

	log.Printf("=== Lane integrity request received ===")
	log.Printf("Content-Type: %s", r.Header.Get("Content-Type"))

	var geometryPayload string
	props := utils.Properties{}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		// Handle direct JSON request; options come from query parameters
		log.Printf("Handling direct JSON request")
		geometryPayload = readBody(w, r)
		if geometryPayload == "" {
			sendResponse(w, []byte("ERROR: Empty request body"))
			return
		}
		props = propertiesFromQuery(r)
	} else {
		// Handle multipart form request
		log.Printf("Handling multipart form request")
		multiPartRequest := utils.ReadMultiPartForm(r, "file")
		props = multiPartRequest.Properties

		if multiPartRequest.File == "" {
			if props.FeatureCollection != "" {
				geometryPayload = props.FeatureCollection
			} else if props.FilePath != "" {
				geometryPayload = readFile(props.FilePath)
			} else {
				sendResponse(w, []byte("ERROR: No suitable files found"))
				return
			}
		} else {
			log.Printf("Reading from uploaded file")
			geometryPayload = multiPartRequest.File
		}
	}

	report, err := runIntegrityCheck([]byte(geometryPayload), props)
	if err != nil {
		status := http.StatusInternalServerError
		var confErr *handlers.ConfigurationError
		var geomErr *handlers.MalformedGeometryError
		if errors.As(err, &confErr) {
			status = http.StatusBadRequest
		} else if errors.As(err, &geomErr) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("ERROR: Lane integrity check failed: %v", err), status)
		return
	}

	go handlers.SaveReport(*report)

	jsonReport, err := json.Marshal(report)
	if err != nil {
		http.Error(w, "ERROR: Failed to encode report", http.StatusInternalServerError)
		return
	}

	if props.Format == "shapefile" {
		zipData, err := utils.GenerateIssueReportZip(jsonReport, report.IssuePoints())
		if err != nil {
			http.Error(w, fmt.Sprintf("ERROR: Shapefile export failed: %v", err), http.StatusInternalServerError)
			return
		}
		log.Printf("Check complete: %d issues. Sending zip response", report.IssueCount)
		sendZipResponse(w, zipData)
		return
	}

	if props.SaveFile && props.FilePath != "" {
		saveFile(props.FilePath, string(jsonReport))
		sendResponse(w, []byte("Report Saved"))
		return
	}

	log.Printf("Check complete: %d issues. Sending response", report.IssueCount)
	sendResponse(w, jsonReport)
}

// runIntegrityCheck is the shared pipeline behind the HTTP handler and
// file mode.
func runIntegrityCheck(payload []byte, props utils.Properties) (*handlers.IntegrityReport, error) {
	opts := handlers.DefaultCheckOptions()
	if props.SnapTolerance > 0 {
		opts.SnapTolerance = props.SnapTolerance
	}
	if props.StrictRadius > 0 {
		opts.StrictRadius = props.StrictRadius
	}
	opts.Workers = props.Workers
	opts.Mercator = props.Mercator

	precision := -1
	if props.Truncate {
		precision = utils.PRECISION
	}

	features, skipped, err := handlers.ParseLaneFeatures(payload, props.Mercator, precision)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Processing %d line features (%d non-line skipped)\n", len(features), skipped)

	issues, err := handlers.CheckLaneIntegrity(features, opts)
	if err != nil {
		return nil, err
	}

	// Mercator runs scan in projected meters; report coordinates back in
	// lon/lat so they line up with the source map.
	if props.Mercator {
		for i := range issues {
			issues[i].Coord = utils.PointToWGS84(issues[i].Coord)
		}
	}

	report := handlers.BuildReport(features, skipped, issues, opts)
	return &report, nil
}

func propertiesFromQuery(r *http.Request) utils.Properties {
	props := utils.Properties{}
	q := r.URL.Query()
	if v, err := strconv.ParseFloat(q.Get("snapTolerance"), 64); err == nil {
		props.SnapTolerance = v
	}
	if v, err := strconv.ParseFloat(q.Get("strictRadius"), 64); err == nil {
		props.StrictRadius = v
	}
	if v, err := strconv.Atoi(q.Get("workers")); err == nil {
		props.Workers = v
	}
	props.Mercator = q.Get("mercator") == "true"
	props.Truncate = q.Get("truncate") == "true"
	props.Format = q.Get("format")
	return props
}

func checkGeometryHandler(w http.ResponseWriter, r *http.Request) {
	body := readBody(w, r)
	if body == "" {
		return
	}

	geometryErrors, err := handlers.CheckGeometry([]byte(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("ERROR: %v", err), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(geometryErrors)
}

// runFileCheck validates a local GeoJSON file and prints the issue
// summary to the terminal.
func runFileCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	snapTolerance := fs.Float64("snap", handlers.DefaultSnapTolerance, "snap tolerance (source units)")
	strictRadius := fs.Float64("radius", handlers.DefaultStrictRadius, "strict radius (source units)")
	snapMeters := fs.Float64("snap-meters", 0, "snap tolerance in meters, converted to WGS84 degrees")
	radiusMeters := fs.Float64("radius-meters", 0, "strict radius in meters, converted to WGS84 degrees")
	workers := fs.Int("workers", 0, "worker count for the scan (0 = serial)")
	mercator := fs.Bool("mercator", false, "reproject to web-mercator; thresholds in meters")
	truncate := fs.Bool("truncate", false, "round coordinates before scanning")
	outFile := fs.String("out", "", "write the JSON report to this path")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: go-lane-checker check [flags] <file.geojson>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	payload, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	props := utils.Properties{
		SnapTolerance: *snapTolerance,
		StrictRadius:  *strictRadius,
		Workers:       *workers,
		Mercator:      *mercator,
		Truncate:      *truncate,
	}
	if *snapMeters > 0 {
		props.SnapTolerance = utils.CalculateWGS84ToleranceFromMeters(*snapMeters)
	}
	if *radiusMeters > 0 {
		props.StrictRadius = utils.CalculateWGS84ToleranceFromMeters(*radiusMeters)
	}

	done := make(chan struct{})
	go func() {
		s := spin.New()
		for {
			select {
			case <-done:
				fmt.Print("\r")
				return
			default:
				fmt.Printf("\rChecking %s %s", path, s.Next())
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()

	report, err := runIntegrityCheck(payload, props)
	close(done)
	if err != nil {
		log.Fatalf("Lane integrity check failed: %v", err)
	}

	fmt.Printf("Number of issues detected: %d\n", report.IssueCount)
	for _, issue := range report.Issues {
		fmt.Printf("  %s way_id:%s road_id:%s at (%.7f, %.7f) gap %.2fm\n",
			issue.Type, issue.WayID, issue.RoadID,
			issue.Coord.X(), issue.Coord.Y(), issue.GapMeters)
	}

	if *outFile != "" {
		jsonReport, _ := json.MarshalIndent(report, "", "  ")
		if err := os.WriteFile(*outFile, jsonReport, 0644); err != nil {
			fmt.Println("Error saving JSON file:", err)
			return
		}
		fmt.Println("JSON saved to", *outFile)
	}

	handlers.SaveReport(*report)
}

func saveFile(filePath string, jsonString string) {
	name := strings.Replace(filePath, ".json", "", 1)
	name = strings.Replace(name, ".geojson", "", 1)
	filename := name + "_ISSUES.json"

	err := os.WriteFile(filename, []byte(jsonString), 0644)
	if err != nil {
		fmt.Println("Error saving JSON file:", err)
		return
	}

	fmt.Println("JSON saved to", filename)
}

func readFile(filePath string) string {
	file, _ := os.ReadFile(filePath)

	return string(file)
}

func sendResponse(w http.ResponseWriter, response []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func sendZipResponse(w http.ResponseWriter, zipData []byte) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=\"lane_issues.zip\"")
	w.WriteHeader(http.StatusOK)
	w.Write(zipData)
}
