package entities

import (
	"fmt"
	"time"
)

// Entity is one base row of the store: stable identity, a free-text type tag
// grouping records ("course", "room", ...), a display name, and a soft-delete
// flag. Attribute data never lives here; it hangs off the values table.
type Entity struct {
	ID         int64
	EntityType string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// String returns a string representation of the entity.
// Format: entity_type:id (name)
func (e *Entity) String() string {
	return fmt.Sprintf("%s:%d (%s)", e.EntityType, e.ID, e.Name)
}

// Validate checks if the entity is valid.
func (e *Entity) Validate() error {
	if e.EntityType == "" {
		return fmt.Errorf("entity type is required")
	}
	if e.Name == "" {
		return fmt.Errorf("entity name is required")
	}
	return nil
}

// Record is the denormalized read model: the base row plus every attribute
// currently set on the entity. Attributes live in their own map, so an
// attribute named "name" or "isActive" can never shadow a base column.
type Record struct {
	Entity
	Attributes map[string]interface{}
}

// Attribute returns the attribute value and whether it is set.
func (r *Record) Attribute(name string) (interface{}, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// Flatten merges base columns and attributes into a single map, the shape the
// administration modules historically consumed. Base columns win when an
// attribute shares their name.
func (r *Record) Flatten() map[string]interface{} {
	flat := make(map[string]interface{}, len(r.Attributes)+6)
	for name, value := range r.Attributes {
		flat[name] = value
	}
	flat["id"] = r.ID
	flat["entityType"] = r.EntityType
	flat["name"] = r.Name
	flat["isActive"] = r.IsActive
	flat["createdAt"] = r.CreatedAt
	flat["updatedAt"] = r.UpdatedAt
	return flat
}
