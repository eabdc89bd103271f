package validation

import (
	"errors"
	"fmt"

	"github.com/deppfellow/recipe-service/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate returns nil or an *errs.HTTPError, which is passed to the client
// as is. Any other error becomes a 400 carrying its message.
type Validatable interface {
	Validate() error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates path parameters and the JSON body.
//     A body that is not JSON is ignored and binds as an empty object;
//     a malformed JSON body is an unhandled error (500 "Something broke!").
//  2. payload.Validate() applies the request's own rules.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil && !errors.Is(err, echo.ErrUnsupportedMediaType) {
		return errs.NewUnhandledError(bindError(err))
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	return nil
}

// bindError unwraps echo's bind error to the decoder's own message.
func bindError(err error) error {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return err
	}
	if he.Internal != nil {
		return he.Internal
	}
	return fmt.Errorf("%v", he.Message)
}

func validationError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return errs.NewBadRequestError(err.Error(), nil)
}
