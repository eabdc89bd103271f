package errs

import (
	"strings"
)

// FieldError is a single schema violation on one field.
//
// Example:
//
//	{ "field": "servings", "error": "Path `servings` (0) is less than minimum allowed value (1)." }
type FieldError struct {
	// Field is the JSON name of the offending field (e.g. "servings").
	Field string `json:"field"`

	// Error is the human-readable violation message.
	Error string `json:"error"`
}

// HTTPError is the error type for API responses.
//
// Fields:
//   - Status: HTTP status code, not serialised.
//   - Code: machine-friendly code (e.g. "BAD_REQUEST"), logged but not serialised.
//   - Message: human-friendly message.
//   - Detail: underlying error text, sent as "error" on 500 responses.
//   - Errors: per-field violation messages.
type HTTPError struct {
	Status  int      `json:"-"`
	Code    string   `json:"-"`
	Message string   `json:"message"`
	Detail  string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`

	// cause is the error that produced this response, if any.
	cause error
}

// Error makes *HTTPError satisfy the built-in error interface.
func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError.
// It does not compare status or message.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	cp := *e
	cp.Message = message
	return &cp
}

// WithCause returns a copy of e that wraps err. Detail is set from err
// unless it is already populated.
func (e *HTTPError) WithCause(err error) *HTTPError {
	cp := *e
	cp.cause = err
	if cp.Detail == "" && err != nil {
		cp.Detail = err.Error()
	}
	return &cp
}

// MakeUpperCaseWithUnderscores converts "Bad Request" to "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
