// Package storage defines the persistence interface for validation runs and their results.
package storage

import (
	"context"

	"github.com/hyperjump/kembar/internal/models"
)

// Storage defines run and result persistence operations.
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *models.Run) error
	FinishRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, offset, limit int) ([]*models.Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Result operations
	SaveResult(ctx context.Context, runID string, result *models.ValidationResult) error
	BatchSaveResults(ctx context.Context, runID string, results []*models.ValidationResult) error
	ListResults(ctx context.Context, runID string) ([]*models.ValidationResult, error)

	// Stats
	CountRuns(ctx context.Context) (int64, error)
	CountResults(ctx context.Context) (int64, error)

	Close() error
}
