package repositories

import (
	"context"

	"github.com/asakaida/gakumu/internal/entities"
)

// AttributeRegistry defines the interface for the shared attribute
// definition registry. Definitions are created lazily and are immutable once
// written; the namespace is global across all entity types.
type AttributeRegistry interface {
	// GetByName retrieves a definition by its unique name.
	// Returns (nil, nil) when no definition exists.
	GetByName(ctx context.Context, name string) (*entities.AttributeDefinition, error)

	// GetOrCreate returns the existing definition for name, or inserts a new
	// one with the given type and description. Creation relies on the
	// database uniqueness constraint: a writer losing the insert race picks
	// up the winner's row instead of failing.
	GetOrCreate(ctx context.Context, name string, dataType entities.DataType, description string) (*entities.AttributeDefinition, error)

	// WithTx returns a copy of the registry bound to the given transaction.
	WithTx(tx DBTX) AttributeRegistry
}
