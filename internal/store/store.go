// Package store persists runs and per-entity dispositions.
package store

import (
	"context"

	"github.com/sells-group/prospector-cli/internal/model"
)

// Store defines the persistence interface for run accounting.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Dispositions
	RecordDisposition(ctx context.Context, runID string, d model.Disposition) error
	ListDispositions(ctx context.Context, runID string) ([]model.Disposition, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
