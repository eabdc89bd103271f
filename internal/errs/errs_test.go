package errs

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_JSON(t *testing.T) {
	tests := []struct {
		name string
		err  *HTTPError
		want string
	}{
		{
			name: "message only",
			err:  NewNotFoundError("Recipe not found"),
			want: `{"message":"Recipe not found"}`,
		},
		{
			name: "validation errors",
			err: NewBadRequestError("Validation error", []FieldError{
				{Field: "servings", Error: "Path `servings` (0) is less than minimum allowed value (1)."},
			}),
			want: `{"message":"Validation error","errors":["Path ` + "`servings`" + ` (0) is less than minimum allowed value (1)."]}`,
		},
		{
			name: "internal with detail",
			err:  NewInternalServerError("Error fetching recipes", errors.New("connection refused")),
			want: `{"message":"Error fetching recipes","error":"connection refused"}`,
		},
		{
			name: "unhandled",
			err:  NewUnhandledError(errors.New("boom")),
			want: `{"message":"Something broke!","error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestHTTPError_Status(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("x", nil).Status)
	assert.Equal(t, "BAD_REQUEST", NewBadRequestError("x", nil).Code)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("x").Status)
	assert.Equal(t, http.StatusTooManyRequests, NewTooManyRequestsError().Status)
	assert.Equal(t, http.StatusServiceUnavailable, NewServiceUnavailableError("x").Status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", NewInternalServerError("x", nil).Code)
}

func TestHTTPError_Wrapping(t *testing.T) {
	cause := errors.New("driver failure")
	err := NewInternalServerError("Error creating recipe", cause)

	assert.ErrorIs(t, err, cause)

	var target *HTTPError
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, "Error creating recipe: driver failure", err.Error())

	renamed := err.WithMessage("other")
	assert.Equal(t, "other", renamed.Message)
	assert.Equal(t, "Error creating recipe", err.Message)
	assert.Equal(t, "driver failure", renamed.Detail)
}
