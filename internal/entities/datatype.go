package entities

import "fmt"

// DataType identifies which of the five storage slots holds an attribute's value.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeText    DataType = "text"
	DataTypeBoolean DataType = "boolean"
	DataTypeDate    DataType = "date"
)

// ParseDataType validates a data type tag received from a caller.
func ParseDataType(s string) (DataType, error) {
	switch dt := DataType(s); dt {
	case DataTypeString, DataTypeNumber, DataTypeText, DataTypeBoolean, DataTypeDate:
		return dt, nil
	default:
		return "", fmt.Errorf("unsupported data type: %q", s)
	}
}

// Valid reports whether the data type is one of the five supported tags.
func (dt DataType) Valid() bool {
	_, err := ParseDataType(string(dt))
	return err == nil
}
