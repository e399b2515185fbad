package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/repositories"
)

// PostgresAttributeRegistry implements AttributeRegistry using PostgreSQL
type PostgresAttributeRegistry struct {
	db repositories.DBTX
}

// NewPostgresAttributeRegistry creates a new PostgreSQL attribute registry
func NewPostgresAttributeRegistry(db repositories.DBTX) repositories.AttributeRegistry {
	return &PostgresAttributeRegistry{db: db}
}

// WithTx returns a copy of the registry bound to the given transaction
func (r *PostgresAttributeRegistry) WithTx(tx repositories.DBTX) repositories.AttributeRegistry {
	return &PostgresAttributeRegistry{db: tx}
}

// GetByName retrieves an attribute definition by its unique name
func (r *PostgresAttributeRegistry) GetByName(ctx context.Context, name string) (*entities.AttributeDefinition, error) {
	query := `
		SELECT id, name, data_type, description
		FROM attributes
		WHERE name = $1
	`
	def := &entities.AttributeDefinition{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&def.ID, &def.Name, &def.DataType, &def.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute definition: %w", err)
	}
	return def, nil
}

// GetOrCreate returns the existing definition for name or inserts a new one.
// The insert uses ON CONFLICT DO NOTHING against the unique name constraint:
// when two first-time writers race, exactly one insert succeeds and the loser
// re-reads the winner's row rather than failing.
func (r *PostgresAttributeRegistry) GetOrCreate(ctx context.Context, name string, dataType entities.DataType, description string) (*entities.AttributeDefinition, error) {
	def, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if def != nil {
		return def, nil
	}

	candidate := &entities.AttributeDefinition{
		Name:        name,
		DataType:    dataType,
		Description: description,
	}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("invalid attribute definition: %w", err)
	}

	query := `
		INSERT INTO attributes (name, data_type, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query, name, string(dataType), description).Scan(&candidate.ID)
	if err == sql.ErrNoRows {
		// Lost the insert race; the winner's row must exist now.
		def, err = r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if def == nil {
			return nil, fmt.Errorf("attribute %q vanished after conflicting insert", name)
		}
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create attribute definition: %w", err)
	}

	return candidate, nil
}
