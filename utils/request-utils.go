package utils

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

type MultipartResult struct {
	File       string
	Properties Properties
}

type Properties struct {
	FilePath          string
	SaveFile          bool
	FeatureCollection string
	Format            string
	Mercator          bool
	Truncate          bool
	SnapTolerance     float64 // 0 means use the default
	StrictRadius      float64 // 0 means use the default
	Workers           int
}

func ReadMultiPartForm(r *http.Request, fileKey string) MultipartResult {
	r.ParseMultipartForm(999999999999999)
	var fileHeader *multipart.FileHeader
	result := MultipartResult{
		File:       "",
		Properties: Properties{},
	}
	if r.MultipartForm == nil {
		return result
	}

	for key, value := range r.MultipartForm.File {
		if key == fileKey {
			fileHeader = value[0]
		}
	}

	for key, value := range r.MultipartForm.Value {
		switch key {
		case "filepath":
			result.Properties.FilePath = value[0]
		case "saveFile":
			result.Properties.SaveFile = value[0] == "true"
		case "featureCollection":
			result.Properties.FeatureCollection = value[0]
		case "format":
			result.Properties.Format = value[0]
		case "mercator":
			result.Properties.Mercator = value[0] == "true"
		case "truncate":
			result.Properties.Truncate = value[0] == "true"
		case "snapTolerance":
			if v, err := strconv.ParseFloat(value[0], 64); err == nil {
				result.Properties.SnapTolerance = v
			}
		case "strictRadius":
			if v, err := strconv.ParseFloat(value[0], 64); err == nil {
				result.Properties.StrictRadius = v
			}
		case "workers":
			if v, err := strconv.Atoi(value[0]); err == nil {
				result.Properties.Workers = v
			}
		}
	}

	if fileHeader != nil {

		file, _ := fileHeader.Open()

		defer file.Close()

		fullFile, _ := io.ReadAll(file)

		result.File = string(fullFile)
	}

	return result
}
