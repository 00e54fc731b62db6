package services

import "errors"

// Sentinel errors returned by the services. Callers match them with
// errors.Is to pick the right HTTP status.
var (
	// ErrInvalidRequest indicates the request failed validation
	ErrInvalidRequest = errors.New("invalid analysis request")

	// ErrDatasetFileMissing indicates a required workbook path was not given
	// for the requested category
	ErrDatasetFileMissing = errors.New("dataset file missing")

	// ErrSnapshotNotFound indicates no stored snapshot matched the lookup
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
