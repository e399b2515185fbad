package entities

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// TypedValue is the closed set of values an attribute can hold. There is
// exactly one concrete type per DataType; the storage layer matches the set
// exhaustively when selecting a slot.
type TypedValue interface {
	DataType() DataType
	typedValue()
}

// StringValue holds a short string (string slot).
type StringValue string

// NumberValue holds a numeric value (number slot).
type NumberValue float64

// TextValue holds arbitrary-length text (text slot). Structured inputs
// (objects, arrays) are JSON-serialized into this form before storage.
type TextValue string

// BoolValue holds a boolean, persisted as integer 1/0.
type BoolValue bool

// DateValue holds a point in time (date slot).
type DateValue time.Time

func (StringValue) DataType() DataType { return DataTypeString }
func (NumberValue) DataType() DataType { return DataTypeNumber }
func (TextValue) DataType() DataType   { return DataTypeText }
func (BoolValue) DataType() DataType   { return DataTypeBoolean }
func (DateValue) DataType() DataType   { return DataTypeDate }

func (StringValue) typedValue() {}
func (NumberValue) typedValue() {}
func (TextValue) typedValue()   {}
func (BoolValue) typedValue()   {}
func (DateValue) typedValue()   {}

// NewTypedValue coerces raw caller input into the typed value for the given
// data type. A nil raw value is a programmer error here; callers translate
// nil into a delete before reaching this point. An unsupported data type or
// an input that cannot be coerced fails before any I/O happens.
func NewTypedValue(dataType DataType, raw interface{}) (TypedValue, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil value for attribute of type %s", dataType)
	}

	switch dataType {
	case DataTypeString:
		s, err := coerceTextual(raw)
		if err != nil {
			return nil, err
		}
		return StringValue(s), nil

	case DataTypeText:
		s, err := coerceTextual(raw)
		if err != nil {
			return nil, err
		}
		return TextValue(s), nil

	case DataTypeNumber:
		switch n := raw.(type) {
		case int:
			return NumberValue(n), nil
		case int32:
			return NumberValue(n), nil
		case int64:
			return NumberValue(n), nil
		case float32:
			return NumberValue(n), nil
		case float64:
			return NumberValue(n), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %q to number: %w", n, err)
			}
			return NumberValue(f), nil
		default:
			return nil, fmt.Errorf("cannot store %T as number", raw)
		}

	case DataTypeBoolean:
		switch b := raw.(type) {
		case bool:
			return BoolValue(b), nil
		case int:
			return BoolValue(b != 0), nil
		case int64:
			return BoolValue(b != 0), nil
		case float64:
			return BoolValue(b != 0), nil
		default:
			return nil, fmt.Errorf("cannot store %T as boolean", raw)
		}

	case DataTypeDate:
		switch d := raw.(type) {
		case time.Time:
			return DateValue(d), nil
		case string:
			if t, err := time.Parse(time.RFC3339, d); err == nil {
				return DateValue(t), nil
			}
			if t, err := time.Parse("2006-01-02", d); err == nil {
				return DateValue(t), nil
			}
			return nil, fmt.Errorf("cannot parse %q as date", d)
		default:
			return nil, fmt.Errorf("cannot store %T as date", raw)
		}

	default:
		return nil, fmt.Errorf("unsupported data type: %q", dataType)
	}
}

// coerceTextual converts raw input destined for the string or text slot.
// Objects and arrays are JSON-serialized so structured data can live in
// text-typed attributes; plain strings pass through untouched.
func coerceTextual(raw interface{}) (string, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		data, err := json.Marshal(raw)
		if err != nil {
			return "", fmt.Errorf("failed to marshal structured value: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("cannot store %T as string/text", raw)
	}
}

// ValueRow is one row of the values table joined with its attribute
// definition. Exactly one of the five slots is non-null after a successful
// write; Decode enforces that when reading.
type ValueRow struct {
	AttributeName string
	DataType      DataType
	ValueString   sql.NullString
	ValueNumber   sql.NullFloat64
	ValueText     sql.NullString
	ValueBoolean  sql.NullInt64
	ValueDate     sql.NullTime
}

// Decode selects the slot matching the declared data type and converts it to
// the caller-facing representation: float64 for numbers, int64 1/0 for
// booleans, time.Time for dates, and for string/text either the raw string or
// a structure recovered from JSON (see decodeTextual).
func (r *ValueRow) Decode() (interface{}, error) {
	switch r.DataType {
	case DataTypeString:
		if !r.ValueString.Valid {
			return nil, fmt.Errorf("attribute %q: string slot is empty", r.AttributeName)
		}
		return decodeTextual(r.ValueString.String), nil
	case DataTypeNumber:
		if !r.ValueNumber.Valid {
			return nil, fmt.Errorf("attribute %q: number slot is empty", r.AttributeName)
		}
		return r.ValueNumber.Float64, nil
	case DataTypeText:
		if !r.ValueText.Valid {
			return nil, fmt.Errorf("attribute %q: text slot is empty", r.AttributeName)
		}
		return decodeTextual(r.ValueText.String), nil
	case DataTypeBoolean:
		if !r.ValueBoolean.Valid {
			return nil, fmt.Errorf("attribute %q: boolean slot is empty", r.AttributeName)
		}
		return r.ValueBoolean.Int64, nil
	case DataTypeDate:
		if !r.ValueDate.Valid {
			return nil, fmt.Errorf("attribute %q: date slot is empty", r.AttributeName)
		}
		return r.ValueDate.Time, nil
	default:
		return nil, fmt.Errorf("attribute %q: unsupported data type %q", r.AttributeName, r.DataType)
	}
}

// decodeTextual reverses the structured-value encoding applied on write.
// Only a string that parses to a non-empty JSON object or non-empty JSON
// array is replaced by the parsed structure; scalars like "42" and empty
// containers stay as the stored string, so incidental JSON-looking input is
// never silently promoted.
func decodeTextual(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '{':
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && len(obj) > 0 {
			return obj
		}
	case '[':
		var arr []interface{}
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil && len(arr) > 0 {
			return arr
		}
	}
	return s
}
