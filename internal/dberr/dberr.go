// Package dberr classifies document-store failures.
//
// Driver errors are cryptic and driver-specific. Convert maps them once, at
// the repository boundary, into *Error carrying a closed Code, so callers
// branch on the code instead of inspecting driver types or message text.
package dberr

import (
	"fmt"
	"strings"

	"github.com/deppfellow/recipe-service/internal/errs"
)

// Code is the category of a store failure.
type Code int

const (
	// Other is any failure the store could not classify.
	Other Code = iota
	// DuplicateKey is a unique index violation.
	DuplicateKey
	// MalformedID is an identifier that is not valid syntax for the store.
	MalformedID
	// NotFound is a well-formed identifier that matches no document.
	NotFound
	// Validation is a document that violates the schema.
	Validation
)

func (c Code) String() string {
	switch c {
	case DuplicateKey:
		return "duplicate_key"
	case MalformedID:
		return "malformed_id"
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	default:
		return "other"
	}
}

// Error is a classified store failure.
type Error struct {
	Code       Code
	Collection string

	// Field is the offending field for DuplicateKey and MalformedID.
	Field string
	// Value is the offending value, when known.
	Value string

	Message string

	// Violations holds the schema violations for Validation, in schema order.
	Violations []errs.FieldError

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the driver error, if any.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// NewMalformedIDError reports an identifier the store cannot parse.
func NewMalformedIDError(collection, id string) *Error {
	return &Error{
		Code:       MalformedID,
		Collection: collection,
		Field:      "_id",
		Value:      id,
		Message: fmt.Sprintf(
			"Cast to ObjectId failed for value %q (type string) at path \"_id\" for model %q",
			id, modelName(collection),
		),
	}
}

// NewNotFoundError reports a missing document.
func NewNotFoundError(collection, id string) *Error {
	return &Error{
		Code:       NotFound,
		Collection: collection,
		Field:      "_id",
		Value:      id,
		Message:    fmt.Sprintf("%s not found", modelName(collection)),
	}
}

// NewValidationError reports schema violations.
//
// The message lists every violation as "field: message", joined by ", ".
func NewValidationError(collection string, violations []errs.FieldError) *Error {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Field+": "+v.Error)
	}

	return &Error{
		Code:       Validation,
		Collection: collection,
		Message:    fmt.Sprintf("%s validation failed: %s", modelName(collection), strings.Join(parts, ", ")),
		Violations: violations,
	}
}
