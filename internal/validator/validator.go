// Package validator defines the contract content validators implement and the
// uniqueness validator built on the fingerprint, similarity, and boilerplate packages.
package validator

import (
	"context"

	"github.com/hyperjump/kembar/internal/models"
)

// Validator checks one content record. Implementations may keep state across calls
// within a corpus run.
type Validator interface {
	Name() string
	Validate(ctx context.Context, rec *models.ContentRecord) (*models.ValidationResult, error)
}

// Stateful is implemented by validators that accumulate corpus state between records.
// Hosts call ClearCache between independent runs.
type Stateful interface {
	ClearCache()
	CacheSize() int
}
