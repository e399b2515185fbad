package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/repositories"
)

// entityUpdateColumns is the allow-list for Update. Attribute data never
// passes through here; it belongs to the values table.
var entityUpdateColumns = map[string]string{
	"name":     "name",
	"isActive": "is_active",
}

// PostgresEntityRepository implements EntityRepository using PostgreSQL
type PostgresEntityRepository struct {
	db repositories.DBTX
}

// NewPostgresEntityRepository creates a new PostgreSQL entity repository
func NewPostgresEntityRepository(db repositories.DBTX) repositories.EntityRepository {
	return &PostgresEntityRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PostgresEntityRepository) WithTx(tx repositories.DBTX) repositories.EntityRepository {
	return &PostgresEntityRepository{db: tx}
}

// Create inserts a base row and returns the new entity ID
func (r *PostgresEntityRepository) Create(ctx context.Context, entityType string, name string, isActive bool) (int64, error) {
	entity := &entities.Entity{EntityType: entityType, Name: name}
	if err := entity.Validate(); err != nil {
		return 0, fmt.Errorf("invalid entity: %w", err)
	}

	query := `
		INSERT INTO entities (entity_type, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, entityType, name, isActive, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create entity: %w", err)
	}

	return id, nil
}

// GetByID retrieves a base row; returns (nil, nil) when absent
func (r *PostgresEntityRepository) GetByID(ctx context.Context, id int64) (*entities.Entity, error) {
	query := `
		SELECT id, entity_type, name, is_active, created_at, updated_at
		FROM entities
		WHERE id = $1
	`
	entity := &entities.Entity{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entity.ID, &entity.EntityType, &entity.Name, &entity.IsActive,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	return entity, nil
}

// ListByType retrieves all base rows of an entity type, most recently created
// first. The descending ID order is what list callers depend on.
func (r *PostgresEntityRepository) ListByType(ctx context.Context, entityType string, filter *repositories.EntityFilter) ([]*entities.Entity, error) {
	query := `
		SELECT id, entity_type, name, is_active, created_at, updated_at
		FROM entities
		WHERE entity_type = $1
	`
	args := []interface{}{entityType}

	if filter != nil && filter.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *filter.IsActive)
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var result []*entities.Entity
	for rows.Next() {
		entity := &entities.Entity{}
		if err := rows.Scan(
			&entity.ID, &entity.EntityType, &entity.Name, &entity.IsActive,
			&entity.CreatedAt, &entity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		result = append(result, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}

	return result, nil
}

// Update applies allow-listed base column updates. Keys outside the
// allow-list are silently ignored; when nothing allowed remains, no query is
// issued at all.
func (r *PostgresEntityRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	var setParts []string
	var args []interface{}

	for key, value := range updates {
		column, ok := entityUpdateColumns[key]
		if !ok {
			continue
		}
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(setParts) == 0 {
		return nil
	}

	args = append(args, time.Now())
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE entities SET %s WHERE id = $%d",
		strings.Join(setParts, ", "), len(args),
	)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}

	return nil
}

// Delete removes the base row; value rows go with it via the foreign key
// cascade. Deleting a nonexistent ID is a silent no-op.
func (r *PostgresEntityRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM entities
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	return nil
}
