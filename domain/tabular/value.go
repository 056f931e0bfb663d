package tabular

import (
	"fmt"
	"strconv"
	"time"
)

// ValueType defines the storage type for a single cell value
type ValueType string

const (
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeString    ValueType = "string"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// Value represents a typed cell value with deterministic coercion
type Value struct {
	Type         ValueType  `json:"type"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	StringVal    *string    `json:"string_val,omitempty"`
	BooleanVal   *bool      `json:"boolean_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
	IsMissing    bool       `json:"is_missing"`
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewStringValue creates a string value; empty strings count as missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// IsNumeric returns true if the value holds a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// AsFloat64 returns the numeric value, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	return 0.0
}

// String returns a stable textual form of the value. Used for row-identity
// hashing during duplicate detection, so the representation must be
// deterministic per value.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return strconv.FormatFloat(*v.NumericVal, 'g', -1, 64)
		}
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeBoolean:
		if v.BooleanVal != nil {
			return fmt.Sprintf("%t", *v.BooleanVal)
		}
	case ValueTypeTimestamp:
		if v.TimestampVal != nil {
			return v.TimestampVal.Format(time.RFC3339)
		}
	case ValueTypeMissing:
		return "<missing>"
	}
	return "<invalid>"
}

// Display returns the user-facing form of the value, empty for missing cells
func (v Value) Display() string {
	if v.IsMissing {
		return ""
	}
	if v.Type == ValueTypeNumeric && v.NumericVal != nil {
		return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
	}
	return v.String()
}
