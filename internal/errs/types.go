package errs

import (
	"net/http"
)

// Messages shared by the handlers and the global error handler.
const (
	MessageUnhandled       = "Something broke!"
	MessageRouteNotFound   = "Route not found"
	MessageTooManyRequests = "Too many requests"
)

func codeFor(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// fieldErrors are flattened into the "errors" list in order.
func NewBadRequestError(message string, fieldErrors []FieldError) *HTTPError {
	var messages []string
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Error)
	}

	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    codeFor(http.StatusBadRequest),
		Message: message,
		Errors:  messages,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Code:    codeFor(http.StatusNotFound),
		Message: message,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusTooManyRequests,
		Code:    codeFor(http.StatusTooManyRequests),
		Message: MessageTooManyRequests,
	}
}

// NewServiceUnavailableError creates a 503 HTTPError.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusServiceUnavailable,
		Code:    codeFor(http.StatusServiceUnavailable),
		Message: message,
	}
}

// NewInternalServerError creates a 500 HTTPError carrying err as detail.
//
// Clients of this API expect the underlying error text in the "error" field,
// so the detail is not hidden.
func NewInternalServerError(message string, err error) *HTTPError {
	e := &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    codeFor(http.StatusInternalServerError),
		Message: message,
	}
	if err != nil {
		return e.WithCause(err)
	}
	return e
}

// NewUnhandledError is the 500 produced for failures no handler classified.
func NewUnhandledError(err error) *HTTPError {
	return NewInternalServerError(MessageUnhandled, err)
}
