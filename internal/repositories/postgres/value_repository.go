package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/repositories"
	"github.com/lib/pq"
)

// PostgresValueRepository implements ValueRepository using PostgreSQL
type PostgresValueRepository struct {
	db repositories.DBTX
}

// NewPostgresValueRepository creates a new PostgreSQL value repository
func NewPostgresValueRepository(db repositories.DBTX) repositories.ValueRepository {
	return &PostgresValueRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PostgresValueRepository) WithTx(tx repositories.DBTX) repositories.ValueRepository {
	return &PostgresValueRepository{db: tx}
}

// slotArgs maps a typed value onto the five slot columns in order
// (string, number, text, boolean, date). Exactly one return value is non-nil;
// the others become NULL in the written row. The type switch is exhaustive
// over the sealed TypedValue set.
func slotArgs(v entities.TypedValue) (str, num, txt, boolean, date interface{}, err error) {
	switch val := v.(type) {
	case entities.StringValue:
		str = string(val)
	case entities.NumberValue:
		num = float64(val)
	case entities.TextValue:
		txt = string(val)
	case entities.BoolValue:
		stored := 0
		if val {
			stored = 1
		}
		boolean = stored
	case entities.DateValue:
		date = time.Time(val)
	default:
		err = fmt.Errorf("unsupported value type %T", v)
	}
	return
}

// Upsert writes the value into its slot and nulls the other four. Insert and
// overwrite are a single statement keyed on (entity_id, attribute_id), so
// concurrent writers to the same pair cannot interleave partial rows; the
// last completed upsert wins.
func (r *PostgresValueRepository) Upsert(ctx context.Context, entityID int64, attributeID int64, value entities.TypedValue) error {
	str, num, txt, boolean, date, err := slotArgs(value)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entity_values (
			entity_id, attribute_id,
			value_string, value_number, value_text, value_boolean, value_date,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (entity_id, attribute_id)
		DO UPDATE SET
			value_string = EXCLUDED.value_string,
			value_number = EXCLUDED.value_number,
			value_text = EXCLUDED.value_text,
			value_boolean = EXCLUDED.value_boolean,
			value_date = EXCLUDED.value_date,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		entityID, attributeID, str, num, txt, boolean, date, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert value: %w", err)
	}

	return nil
}

// Delete removes the value row for (entityID, attributeID)
func (r *PostgresValueRepository) Delete(ctx context.Context, entityID int64, attributeID int64) error {
	query := `
		DELETE FROM entity_values
		WHERE entity_id = $1 AND attribute_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, entityID, attributeID)
	if err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

// ListByEntity retrieves all value rows for one entity joined with their
// attribute definitions
func (r *PostgresValueRepository) ListByEntity(ctx context.Context, entityID int64) ([]*entities.ValueRow, error) {
	query := `
		SELECT a.name, a.data_type,
			v.value_string, v.value_number, v.value_text, v.value_boolean, v.value_date
		FROM entity_values v
		INNER JOIN attributes a ON a.id = v.attribute_id
		WHERE v.entity_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}
	defer rows.Close()

	var result []*entities.ValueRow
	for rows.Next() {
		row := &entities.ValueRow{}
		if err := rows.Scan(
			&row.AttributeName, &row.DataType,
			&row.ValueString, &row.ValueNumber, &row.ValueText, &row.ValueBoolean, &row.ValueDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan value row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating value rows: %w", err)
	}

	return result, nil
}

// ListByEntities retrieves the value rows for all given entities in one
// query, grouped by entity ID. This is the second half of the two-query bulk
// read path; it must stay a single round trip regardless of len(entityIDs).
func (r *PostgresValueRepository) ListByEntities(ctx context.Context, entityIDs []int64) (map[int64][]*entities.ValueRow, error) {
	grouped := make(map[int64][]*entities.ValueRow)
	if len(entityIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT v.entity_id, a.name, a.data_type,
			v.value_string, v.value_number, v.value_text, v.value_boolean, v.value_date
		FROM entity_values v
		INNER JOIN attributes a ON a.id = v.attribute_id
		WHERE v.entity_id = ANY($1)
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(entityIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entityID int64
		row := &entities.ValueRow{}
		if err := rows.Scan(
			&entityID, &row.AttributeName, &row.DataType,
			&row.ValueString, &row.ValueNumber, &row.ValueText, &row.ValueBoolean, &row.ValueDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan value row: %w", err)
		}
		grouped[entityID] = append(grouped[entityID], row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating value rows: %w", err)
	}

	return grouped, nil
}

// SearchEntityIDs returns IDs of entities of the given type whose value for
// the named attribute contains term in its string or text slot
func (r *PostgresValueRepository) SearchEntityIDs(ctx context.Context, entityType string, attributeName string, term string) ([]int64, error) {
	query := `
		SELECT v.entity_id
		FROM entity_values v
		INNER JOIN attributes a ON a.id = v.attribute_id
		INNER JOIN entities e ON e.id = v.entity_id
		WHERE e.entity_type = $1
			AND a.name = $2
			AND (v.value_string ILIKE '%' || $3 || '%' OR v.value_text ILIKE '%' || $3 || '%')
		ORDER BY v.entity_id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, entityType, attributeName, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search values: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entity ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return ids, nil
}
