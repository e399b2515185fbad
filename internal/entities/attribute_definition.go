package entities

import "fmt"

// AttributeDefinition is one entry in the shared attribute registry.
// Names are globally unique across all entity types: a course and a room that
// both use "notes" share this definition and its declared data type. The first
// writer of a name fixes the type; definitions are never renamed or retyped.
type AttributeDefinition struct {
	ID          int64
	Name        string
	DataType    DataType
	Description string
}

// Validate checks if the definition is valid.
func (d *AttributeDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	if !d.DataType.Valid() {
		return fmt.Errorf("unsupported data type: %q", d.DataType)
	}
	return nil
}

// defaultDescriptions maps well-known attribute names used by the
// administration modules to human-readable descriptions.
var defaultDescriptions = map[string]string{
	"subject_id":     "Identifier of the subject this course belongs to",
	"schedule":       "Weekly meeting schedule",
	"credits":        "Number of credits awarded",
	"lab_required":   "Whether a laboratory session is required",
	"semester":       "Semester in which the course runs",
	"instructor":     "Name of the assigned instructor",
	"capacity":       "Maximum number of occupants",
	"building":       "Building the room is located in",
	"floor":          "Floor number within the building",
	"equipment":      "Installed equipment list",
	"description":    "Free-form description",
	"status":         "Current processing status",
	"priority":       "Handling priority",
	"reported_by":    "User who reported the request",
	"resolved_at":    "Timestamp the request was resolved",
	"notes":          "Additional notes",
	"prerequisites":  "Prerequisite subjects or courses",
	"accessible":     "Whether the room is wheelchair accessible",
	"contact_email":  "Contact e-mail address",
	"scheduled_date": "Date the work is scheduled for",
}

// DefaultDescription returns the canned description for a well-known attribute
// name, or a generic templated one for names not in the table.
func DefaultDescription(name string, dataType DataType) string {
	if desc, ok := defaultDescriptions[name]; ok {
		return desc
	}
	return fmt.Sprintf("Attribute %q of type %s", name, dataType)
}
