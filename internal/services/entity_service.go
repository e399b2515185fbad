package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/infrastructure/metrics"
	"github.com/asakaida/gakumu/internal/repositories"
)

// AttributeInput is one entry of a batch attribute write. A nil Value clears
// the attribute: after the call the key is absent from reads, the same as if
// it had never been set.
type AttributeInput struct {
	Value    interface{}
	DataType entities.DataType
}

// CreateOptions carries optional flags for CreateEntity.
type CreateOptions struct {
	// IsActive overrides the default of true when non-nil.
	IsActive *bool
}

// EntityServiceInterface defines the caller-facing entity store operations.
// Domain repositories (courses, rooms, maintenance requests, ...) consume the
// EAV engine exclusively through this interface.
type EntityServiceInterface interface {
	CreateEntity(ctx context.Context, entityType string, name string, opts *CreateOptions) (int64, error)
	SetAttributeValue(ctx context.Context, entityID int64, name string, value interface{}, dataType entities.DataType) error
	SetEntityAttributes(ctx context.Context, entityID int64, attrs map[string]AttributeInput) error
	GetEntityByID(ctx context.Context, id int64) (*entities.Record, error)
	GetEntitiesByType(ctx context.Context, entityType string, filter *repositories.EntityFilter) ([]*entities.Record, error)
	UpdateEntity(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteEntity(ctx context.Context, id int64) error
	SearchEntitiesByAttribute(ctx context.Context, entityType string, attributeName string, term string) ([]*entities.Record, error)
	WithTransaction(ctx context.Context, fn func(store EntityServiceInterface) error) error
}

// EntityService implements the entity store over the base row repository, the
// value repository, and the attribute registry.
type EntityService struct {
	db         *sql.DB // nil when the service is bound to a transaction
	entityRepo repositories.EntityRepository
	valueRepo  repositories.ValueRepository
	registry   *AttributeRegistryService
	collector  *metrics.Collector
}

// NewEntityService creates a new EntityService. The collector is optional;
// pass nil to skip metrics recording.
func NewEntityService(
	db *sql.DB,
	entityRepo repositories.EntityRepository,
	valueRepo repositories.ValueRepository,
	registry *AttributeRegistryService,
	collector *metrics.Collector,
) *EntityService {
	return &EntityService{
		db:         db,
		entityRepo: entityRepo,
		valueRepo:  valueRepo,
		registry:   registry,
		collector:  collector,
	}
}

// WithTransaction runs fn with every store operation bound to a single
// database transaction, committing on nil return and rolling back otherwise.
// Callers needing an atomic multi-attribute write wrap it here; outside a
// transaction, batch writes stay best-effort sequential.
func (s *EntityService) WithTransaction(ctx context.Context, fn func(store EntityServiceInterface) error) error {
	if s.db == nil {
		return fmt.Errorf("already inside a transaction")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	txService := &EntityService{
		entityRepo: s.entityRepo.WithTx(tx),
		valueRepo:  s.valueRepo.WithTx(tx),
		registry:   s.registry.WithTx(tx),
		collector:  s.collector,
	}

	if err := fn(txService); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateEntity inserts a base row and returns the new entity ID. Attributes
// are not accepted here; follow with SetEntityAttributes.
func (s *EntityService) CreateEntity(ctx context.Context, entityType string, name string, opts *CreateOptions) (id int64, err error) {
	defer s.observe("CreateEntity", time.Now(), 1, &err)

	isActive := true
	if opts != nil && opts.IsActive != nil {
		isActive = *opts.IsActive
	}

	id, err = s.entityRepo.Create(ctx, entityType, name, isActive)
	if err != nil {
		return 0, fmt.Errorf("failed to create entity: %w", err)
	}
	return id, nil
}

// SetAttributeValue writes one typed value for (entityID, name). A nil value
// clears the attribute. An unrecognized data type is rejected before any I/O.
func (s *EntityService) SetAttributeValue(ctx context.Context, entityID int64, name string, value interface{}, dataType entities.DataType) (err error) {
	defer s.observe("SetAttributeValue", time.Now(), 2, &err)

	if !dataType.Valid() {
		return fmt.Errorf("unsupported data type: %q", dataType)
	}

	def, err := s.registry.GetOrCreateAttribute(ctx, name, dataType, "")
	if err != nil {
		return err
	}

	if value == nil {
		if err := s.valueRepo.Delete(ctx, entityID, def.ID); err != nil {
			return fmt.Errorf("failed to clear attribute %q: %w", name, err)
		}
		return nil
	}

	typed, err := entities.NewTypedValue(dataType, value)
	if err != nil {
		return fmt.Errorf("invalid value for attribute %q: %w", name, err)
	}

	if err := s.valueRepo.Upsert(ctx, entityID, def.ID, typed); err != nil {
		return fmt.Errorf("failed to set attribute %q: %w", name, err)
	}

	return nil
}

// SetEntityAttributes writes a batch of attributes, one SetAttributeValue per
// entry. The batch is not atomic on its own: a failure partway through leaves
// earlier attributes committed and surfaces the error. Wrap the call in
// WithTransaction when atomicity is required.
func (s *EntityService) SetEntityAttributes(ctx context.Context, entityID int64, attrs map[string]AttributeInput) error {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		input := attrs[name]
		if err := s.SetAttributeValue(ctx, entityID, name, input.Value, input.DataType); err != nil {
			return fmt.Errorf("failed to set attributes for entity %d: %w", entityID, err)
		}
	}

	return nil
}

// GetEntityByID reconstructs the entity and all its attributes.
// Returns (nil, nil) when the entity does not exist.
func (s *EntityService) GetEntityByID(ctx context.Context, id int64) (rec *entities.Record, err error) {
	defer s.observe("GetEntityByID", time.Now(), 2, &err)

	entity, err := s.entityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %d: %w", id, err)
	}
	if entity == nil {
		return nil, nil
	}

	rows, err := s.valueRepo.ListByEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes for entity %d: %w", id, err)
	}

	return buildRecord(entity, rows)
}

// GetEntitiesByType reconstructs all entities of a type in exactly two
// queries: one for the base rows, one for all their values. The shape is
// independent of the result size; an empty base result short-circuits before
// the value query. Callers at list-endpoint scale depend on this.
func (s *EntityService) GetEntitiesByType(ctx context.Context, entityType string, filter *repositories.EntityFilter) (recs []*entities.Record, err error) {
	queries := 1
	defer func(start time.Time) { s.observe("GetEntitiesByType", start, queries, &err) }(time.Now())

	baseRows, err := s.entityRepo.ListByType(ctx, entityType, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities of type %q: %w", entityType, err)
	}
	if len(baseRows) == 0 {
		return []*entities.Record{}, nil
	}

	ids := make([]int64, len(baseRows))
	for i, entity := range baseRows {
		ids[i] = entity.ID
	}

	queries = 2
	grouped, err := s.valueRepo.ListByEntities(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes for type %q: %w", entityType, err)
	}

	records := make([]*entities.Record, 0, len(baseRows))
	for _, entity := range baseRows {
		record, err := buildRecord(entity, grouped[entity.ID])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// UpdateEntity applies allow-listed base column updates (name, isActive).
// Unknown keys are ignored; attribute data never passes through here.
func (s *EntityService) UpdateEntity(ctx context.Context, id int64, updates map[string]interface{}) (err error) {
	defer s.observe("UpdateEntity", time.Now(), 1, &err)

	if err := s.entityRepo.Update(ctx, id, updates); err != nil {
		return fmt.Errorf("failed to update entity %d: %w", id, err)
	}
	return nil
}

// DeleteEntity removes the entity and, via the database cascade, every value
// row attached to it. Deleting a nonexistent ID is a silent no-op.
func (s *EntityService) DeleteEntity(ctx context.Context, id int64) (err error) {
	defer s.observe("DeleteEntity", time.Now(), 1, &err)

	if err := s.entityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete entity %d: %w", id, err)
	}
	return nil
}

// SearchEntitiesByAttribute returns the full records of entities of the given
// type whose named attribute contains term in its string or text slot.
// Matching IDs are re-fetched one by one through GetEntityByID; unlike the
// bulk list path this is intentionally per-entity, matching how the
// administration modules have always consumed it.
func (s *EntityService) SearchEntitiesByAttribute(ctx context.Context, entityType string, attributeName string, term string) (recs []*entities.Record, err error) {
	defer s.observe("SearchEntitiesByAttribute", time.Now(), 1, &err)

	ids, err := s.valueRepo.SearchEntityIDs(ctx, entityType, attributeName, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search %q by %q: %w", entityType, attributeName, err)
	}

	records := make([]*entities.Record, 0, len(ids))
	for _, id := range ids {
		record, err := s.GetEntityByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			// Deleted between the search and the fetch; skip.
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// buildRecord merges a base row with its decoded value rows.
func buildRecord(entity *entities.Entity, rows []*entities.ValueRow) (*entities.Record, error) {
	attrs := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		value, err := row.Decode()
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", entity.ID, err)
		}
		attrs[row.AttributeName] = value
	}

	return &entities.Record{
		Entity:     *entity,
		Attributes: attrs,
	}, nil
}

// observe records one store operation on the collector.
func (s *EntityService) observe(operation string, start time.Time, queries int, errp *error) {
	if s.collector == nil {
		return
	}
	s.collector.RecordOperation(operation)
	s.collector.RecordQueries(operation, queries)
	s.collector.RecordDuration(operation, time.Since(start).Seconds())
	if errp != nil && *errp != nil {
		s.collector.RecordError(operation)
	}
}
