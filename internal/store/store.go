// Package store persists ingestion runs and their samples so past reports
// can be re-printed without re-parsing the instrument files.
package store

import (
	"context"

	"github.com/Geotexan/data-wang/internal/model"
)

// Store defines the persistence interface for ingestion runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, sourceDir string, fileCount int) (*model.Run, error)
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	LatestRun(ctx context.Context) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Samples
	AddSamples(ctx context.Context, runID string, samples []model.Sample) error
	GetReport(ctx context.Context, runID string) (model.Report, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 50
