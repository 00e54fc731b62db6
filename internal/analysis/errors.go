package analysis

import (
	"errors"
	"fmt"
)

// SchemaError reports that a dataset's schema cannot support a requested
// computation: the identifier column is entirely unfindable, or the analysis
// category is not one of the recognized values. Everything else the engine
// treats as soft data absence and records as an omitted section instead.
type SchemaError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s: %s", e.Field, e.Message)
}

// NewSchemaError creates a SchemaError for the given field
func NewSchemaError(field, message string) *SchemaError {
	return &SchemaError{Field: field, Message: message}
}

// IsSchemaError reports whether err is (or wraps) a SchemaError
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
