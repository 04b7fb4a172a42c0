package models

import "time"

// MeasurementRecord is one depth/cycle observation ready for insertion.
// Optional readings and the observation time are nil when absent.
type MeasurementRecord struct {
	Temperature float64
	Latitude    float64
	Longitude   float64
	Pressure    float64
	Salinity    float64
	Oxygen      *float64
	Nitrate     *float64
	Depth       *float64
	ObservedAt  *time.Time
}

// FileResult captures what happened to one source file during a run.
type FileResult struct {
	Path       string
	Candidates int
	Inserted   int
	Skipped    bool
	SkipReason string
	Err        error
}

// RunSummary aggregates a whole ingestion run.
type RunSummary struct {
	RunID      string
	Root       string
	Files      int
	Ingested   int
	Skipped    int
	Failed     int
	TotalRows  int
	Duration   time.Duration
	DryRun     bool
	FileResult []FileResult
}
