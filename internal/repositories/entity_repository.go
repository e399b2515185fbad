package repositories

import (
	"context"

	"github.com/asakaida/gakumu/internal/entities"
)

// EntityFilter narrows ListByType results.
type EntityFilter struct {
	// IsActive filters on the soft-delete flag when non-nil.
	IsActive *bool
}

// EntityRepository defines the interface for base entity row access.
type EntityRepository interface {
	// Create inserts a base row and returns the new entity ID.
	Create(ctx context.Context, entityType string, name string, isActive bool) (int64, error)

	// GetByID retrieves a base row.
	// Returns (nil, nil) when the entity does not exist.
	GetByID(ctx context.Context, id int64) (*entities.Entity, error)

	// ListByType retrieves all base rows of an entity type, most recently
	// created first.
	ListByType(ctx context.Context, entityType string, filter *EntityFilter) ([]*entities.Entity, error)

	// Update applies allow-listed base column updates. Keys outside the
	// allow-list are ignored; an update with no allowed keys issues no query.
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// Delete removes the base row. Value rows are removed by the database
	// cascade. Deleting a nonexistent ID is a no-op.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx DBTX) EntityRepository
}
