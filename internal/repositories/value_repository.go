package repositories

import (
	"context"

	"github.com/asakaida/gakumu/internal/entities"
)

// ValueRepository defines the interface for typed value row access.
// Each row is keyed on (entity ID, attribute ID) and holds exactly one
// populated slot matching the attribute's declared data type.
type ValueRepository interface {
	// Upsert writes the value into its type's slot and nulls the other four,
	// inserting or overwriting in a single atomic statement.
	Upsert(ctx context.Context, entityID int64, attributeID int64, value entities.TypedValue) error

	// Delete removes the value row for (entityID, attributeID).
	// Deleting an absent row is a no-op.
	Delete(ctx context.Context, entityID int64, attributeID int64) error

	// ListByEntity retrieves all value rows for one entity joined with their
	// attribute definitions.
	ListByEntity(ctx context.Context, entityID int64) ([]*entities.ValueRow, error)

	// ListByEntities retrieves the value rows for all given entities in a
	// single query, grouped by entity ID.
	ListByEntities(ctx context.Context, entityIDs []int64) (map[int64][]*entities.ValueRow, error)

	// SearchEntityIDs returns the IDs of entities of the given type whose
	// value for the named attribute contains the search term in its string or
	// text slot, most recently created entity first.
	SearchEntityIDs(ctx context.Context, entityType string, attributeName string, term string) ([]int64, error)

	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx DBTX) ValueRepository
}
