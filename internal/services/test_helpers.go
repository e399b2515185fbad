package services

import (
	"context"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/repositories"
)

// Mock EntityRepository
type mockEntityRepository struct {
	createFunc     func(ctx context.Context, entityType string, name string, isActive bool) (int64, error)
	getByIDFunc    func(ctx context.Context, id int64) (*entities.Entity, error)
	listByTypeFunc func(ctx context.Context, entityType string, filter *repositories.EntityFilter) ([]*entities.Entity, error)
	updateFunc     func(ctx context.Context, id int64, updates map[string]interface{}) error
	deleteFunc     func(ctx context.Context, id int64) error

	createCalls     int
	getByIDCalls    int
	listByTypeCalls int
}

func (m *mockEntityRepository) Create(ctx context.Context, entityType string, name string, isActive bool) (int64, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, entityType, name, isActive)
	}
	return 1, nil
}

func (m *mockEntityRepository) GetByID(ctx context.Context, id int64) (*entities.Entity, error) {
	m.getByIDCalls++
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockEntityRepository) ListByType(ctx context.Context, entityType string, filter *repositories.EntityFilter) ([]*entities.Entity, error) {
	m.listByTypeCalls++
	if m.listByTypeFunc != nil {
		return m.listByTypeFunc(ctx, entityType, filter)
	}
	return nil, nil
}

func (m *mockEntityRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockEntityRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEntityRepository) WithTx(tx repositories.DBTX) repositories.EntityRepository {
	return m
}

// Mock ValueRepository
type mockValueRepository struct {
	upsertFunc         func(ctx context.Context, entityID int64, attributeID int64, value entities.TypedValue) error
	deleteFunc         func(ctx context.Context, entityID int64, attributeID int64) error
	listByEntityFunc   func(ctx context.Context, entityID int64) ([]*entities.ValueRow, error)
	listByEntitiesFunc func(ctx context.Context, entityIDs []int64) (map[int64][]*entities.ValueRow, error)
	searchFunc         func(ctx context.Context, entityType string, attributeName string, term string) ([]int64, error)

	upsertCalls         int
	deleteCalls         int
	listByEntityCalls   int
	listByEntitiesCalls int
}

func (m *mockValueRepository) Upsert(ctx context.Context, entityID int64, attributeID int64, value entities.TypedValue) error {
	m.upsertCalls++
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, entityID, attributeID, value)
	}
	return nil
}

func (m *mockValueRepository) Delete(ctx context.Context, entityID int64, attributeID int64) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, entityID, attributeID)
	}
	return nil
}

func (m *mockValueRepository) ListByEntity(ctx context.Context, entityID int64) ([]*entities.ValueRow, error) {
	m.listByEntityCalls++
	if m.listByEntityFunc != nil {
		return m.listByEntityFunc(ctx, entityID)
	}
	return nil, nil
}

func (m *mockValueRepository) ListByEntities(ctx context.Context, entityIDs []int64) (map[int64][]*entities.ValueRow, error) {
	m.listByEntitiesCalls++
	if m.listByEntitiesFunc != nil {
		return m.listByEntitiesFunc(ctx, entityIDs)
	}
	return map[int64][]*entities.ValueRow{}, nil
}

func (m *mockValueRepository) SearchEntityIDs(ctx context.Context, entityType string, attributeName string, term string) ([]int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, entityType, attributeName, term)
	}
	return nil, nil
}

func (m *mockValueRepository) WithTx(tx repositories.DBTX) repositories.ValueRepository {
	return m
}

// Mock AttributeRegistry
type mockAttributeRegistry struct {
	getByNameFunc   func(ctx context.Context, name string) (*entities.AttributeDefinition, error)
	getOrCreateFunc func(ctx context.Context, name string, dataType entities.DataType, description string) (*entities.AttributeDefinition, error)

	getOrCreateCalls int
}

func (m *mockAttributeRegistry) GetByName(ctx context.Context, name string) (*entities.AttributeDefinition, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockAttributeRegistry) GetOrCreate(ctx context.Context, name string, dataType entities.DataType, description string) (*entities.AttributeDefinition, error) {
	m.getOrCreateCalls++
	if m.getOrCreateFunc != nil {
		return m.getOrCreateFunc(ctx, name, dataType, description)
	}
	return &entities.AttributeDefinition{ID: 1, Name: name, DataType: dataType, Description: description}, nil
}

func (m *mockAttributeRegistry) WithTx(tx repositories.DBTX) repositories.AttributeRegistry {
	return m
}
