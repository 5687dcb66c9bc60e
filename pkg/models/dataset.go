package models

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ColumnType identifies the logical type of a column
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeInteger ColumnType = "integer"
	TypeDate    ColumnType = "date"
	TypeEmail   ColumnType = "email"
	TypePhone   ColumnType = "phone"
	TypeURL     ColumnType = "url"
	TypeBoolean ColumnType = "boolean"
	TypeUUID    ColumnType = "uuid"
	TypeIP      ColumnType = "ip"
	TypeJSON    ColumnType = "json"
	TypeAny     ColumnType = "any"
)

// Row is an ordered mapping from column name to a scalar value. Ordering is
// carried by Dataset.Headers; rows are never mutated by the engine.
type Row map[string]interface{}

// Dataset is the canonical input shape handed to the engine by the ingest
// boundary: rows plus the header order they were parsed with.
type Dataset struct {
	Rows     []Row    `json:"rows"`
	Headers  []string `json:"headers"`
	SourceID string   `json:"source_id,omitempty"`
	SourceURL string  `json:"source_url,omitempty"`
}

// ColumnConstraints carries the optional value constraints for a column.
// Pointer fields distinguish "not set" from zero values.
type ColumnConstraints struct {
	Min           *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength     *int     `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength     *int     `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Pattern       string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
}

// ColumnTypeDefinition declares the expected type and constraints of a
// column. Definitions are either supplied (schema mode) or inferred once per
// run and are immutable thereafter.
type ColumnTypeDefinition struct {
	Name        string             `json:"name" yaml:"name"`
	Type        ColumnType         `json:"type" yaml:"type"`
	Required    bool               `json:"required,omitempty" yaml:"required,omitempty"`
	Unique      bool               `json:"unique,omitempty" yaml:"unique,omitempty"`
	Constraints *ColumnConstraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// IsNull reports whether a cell value is null or effectively empty.
func IsNull(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// ValueToString renders a cell value for signatures, issue records and set
// membership. Null values render as the empty string.
func ValueToString(v interface{}) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

// ValueToFloat coerces a cell value to a finite float64. The second return
// is false for nulls, non-numeric strings, NaN and infinities.
func ValueToFloat(v interface{}) (float64, bool) {
	if IsNull(v) {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// TruncateValue bounds a stringified value for inclusion in an issue record.
func TruncateValue(v interface{}, max int) string {
	s := ValueToString(v)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
