package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/repositories"
	"github.com/asakaida/gakumu/pkg/cache"
)

// ErrDataTypeMismatch is returned when a caller requests an attribute under a
// data type that conflicts with the type its first writer registered.
var ErrDataTypeMismatch = errors.New("attribute data type mismatch")

// AttributeRegistryServiceInterface defines the interface for attribute
// resolution.
type AttributeRegistryServiceInterface interface {
	GetOrCreateAttribute(ctx context.Context, name string, dataType entities.DataType, description string) (*entities.AttributeDefinition, error)
}

// AttributeRegistryService resolves attribute names to their shared
// definitions, creating them lazily on first use. The namespace is global:
// the first writer of a name permanently fixes its data type, and a later
// request under a different type is rejected (writing through it would
// populate a slot contradicting the declared type).
//
// Definitions are immutable once created, so resolved entries can be cached
// without invalidation concerns.
type AttributeRegistryService struct {
	registry repositories.AttributeRegistry
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewAttributeRegistryService creates a new AttributeRegistryService.
// The cache is optional; pass nil to resolve against the database every time.
func NewAttributeRegistryService(registry repositories.AttributeRegistry, defCache cache.Cache, cacheTTL time.Duration) *AttributeRegistryService {
	return &AttributeRegistryService{
		registry: registry,
		cache:    defCache,
		cacheTTL: cacheTTL,
	}
}

// WithTx returns a copy of the service bound to the given transaction.
// The copy carries no cache: a definition created inside a transaction is
// not durable until commit, and caching it would leak a dead ID on rollback.
func (s *AttributeRegistryService) WithTx(tx repositories.DBTX) *AttributeRegistryService {
	return &AttributeRegistryService{
		registry: s.registry.WithTx(tx),
	}
}

// GetOrCreateAttribute resolves name to its definition, inserting one with
// the given type on first use. An empty description falls back to the
// well-known-name table, then to a generic template.
func (s *AttributeRegistryService) GetOrCreateAttribute(ctx context.Context, name string, dataType entities.DataType, description string) (*entities.AttributeDefinition, error) {
	if name == "" {
		return nil, fmt.Errorf("attribute name is required")
	}
	if !dataType.Valid() {
		return nil, fmt.Errorf("unsupported data type: %q", dataType)
	}

	if def := s.cached(ctx, name); def != nil {
		return s.checkType(def, dataType)
	}

	if description == "" {
		description = entities.DefaultDescription(name, dataType)
	}

	def, err := s.registry.GetOrCreate(ctx, name, dataType, description)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attribute %q: %w", name, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey(name), def, s.cacheTTL)
	}

	return s.checkType(def, dataType)
}

func (s *AttributeRegistryService) cached(ctx context.Context, name string) *entities.AttributeDefinition {
	if s.cache == nil {
		return nil
	}
	v, ok := s.cache.Get(ctx, cacheKey(name))
	if !ok {
		return nil
	}
	def, ok := v.(*entities.AttributeDefinition)
	if !ok {
		return nil
	}
	return def
}

func (s *AttributeRegistryService) checkType(def *entities.AttributeDefinition, requested entities.DataType) (*entities.AttributeDefinition, error) {
	if def.DataType != requested {
		return nil, fmt.Errorf("attribute %q is registered as %s, requested %s: %w",
			def.Name, def.DataType, requested, ErrDataTypeMismatch)
	}
	return def, nil
}

func cacheKey(name string) string {
	return "attrdef:" + name
}
