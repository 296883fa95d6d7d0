package analysis

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows List results.  Zero values mean "no constraint".
type ListFilter struct {
	Status   Status
	Language string
	Limit    int
	Offset   int
}

// Repository is the persistence contract for Analysis records.
// Implementations live under internal/infrastructure/database.
type Repository interface {
	// Create inserts a new record; the ID must be unused.
	Create(ctx context.Context, a *Analysis) error

	// GetByID loads a record, returning CodeAnalysisNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)

	// GetByDocumentHash returns the most recent record for a content
	// hash, or CodeAnalysisNotFound.
	GetByDocumentHash(ctx context.Context, hash string) (*Analysis, error)

	// Update persists status, artifacts, and timestamps of an existing
	// record.
	Update(ctx context.Context, a *Analysis) error

	// List returns records matching filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Analysis, error)
}
