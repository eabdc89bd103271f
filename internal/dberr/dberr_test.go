package dberr

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/recipe-service/internal/errs"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const dupMessage = `E11000 duplicate key error collection: recipes.recipes index: title_1 dup key: { title: "Soup" }`

func TestConvert(t *testing.T) {
	rawKeyPattern, err := bson.Marshal(bson.D{{Key: "keyPattern", Value: bson.D{{Key: "title", Value: 1}}}})
	require.NoError(t, err)

	tests := []struct {
		name      string
		err       error
		wantCode  Code
		wantField string
	}{
		{
			name:     "no documents",
			err:      mongo.ErrNoDocuments,
			wantCode: NotFound,
		},
		{
			name: "duplicate key with key pattern",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{
				{Code: 11000, Message: "E11000 duplicate key error", Raw: bson.Raw(rawKeyPattern)},
			}},
			wantCode:  DuplicateKey,
			wantField: "title",
		},
		{
			name: "duplicate key from message",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{
				{Code: 11000, Message: dupMessage},
			}},
			wantCode:  DuplicateKey,
			wantField: "title",
		},
		{
			name:      "duplicate key command error",
			err:       mongo.CommandError{Code: 11000, Message: dupMessage},
			wantCode:  DuplicateKey,
			wantField: "title",
		},
		{
			name:     "timeout",
			err:      context.DeadlineExceeded,
			wantCode: Other,
		},
		{
			name:     "unclassified",
			err:      errors.New("connection reset"),
			wantCode: Other,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converted := Convert(tt.err, "recipes")
			require.Error(t, converted)
			assert.Equal(t, tt.wantCode, ErrCode(converted))
			// Driver write/command errors are not comparable, so match by value.
			assert.Equal(t, tt.err, pkgerrors.Cause(errors.Unwrap(converted)))

			var dbErr *Error
			require.ErrorAs(t, converted, &dbErr)
			assert.Equal(t, tt.wantField, dbErr.Field)
			assert.Equal(t, "recipes", dbErr.Collection)
		})
	}
}

func TestConvert_Passthrough(t *testing.T) {
	assert.NoError(t, Convert(nil, "recipes"))

	original := NewMalformedIDError("recipes", "bad")
	assert.Same(t, original, Convert(original, "recipes"))
}

func TestErrCode_Unwrapped(t *testing.T) {
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
	assert.Equal(t, Other, ErrCode(nil))
	assert.Equal(t, MalformedID, ErrCode(NewMalformedIDError("recipes", "bad")))
}

func TestConstructors(t *testing.T) {
	malformed := NewMalformedIDError("recipes", "not-a-valid-id")
	assert.Equal(t, `Cast to ObjectId failed for value "not-a-valid-id" (type string) at path "_id" for model "Recipe"`, malformed.Error())

	notFound := NewNotFoundError("recipes", "64b7f0c2a1b2c3d4e5f60718")
	assert.Equal(t, "Recipe not found", notFound.Error())

	validation := NewValidationError("recipes", []errs.FieldError{
		{Field: "title", Error: "Recipe title is required"},
		{Field: "servings", Error: "Path `servings` (0) is less than minimum allowed value (1)."},
	})
	assert.Equal(t,
		"Recipe validation failed: title: Recipe title is required, servings: Path `servings` (0) is less than minimum allowed value (1).",
		validation.Error(),
	)
	assert.Len(t, validation.Violations, 2)
}

func TestHandleError(t *testing.T) {
	dup := Convert(mongo.CommandError{Code: 11000, Message: dupMessage}, "recipes")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantErrors  []string
	}{
		{"duplicate", dup, http.StatusBadRequest, "A recipe with this title already exists.", nil},
		{"malformed", NewMalformedIDError("recipes", "x"), http.StatusBadRequest, "Invalid recipe ID format.", nil},
		{"not found", NewNotFoundError("recipes", "x"), http.StatusNotFound, "Recipe not found", nil},
		{
			"validation",
			NewValidationError("recipes", []errs.FieldError{{Field: "title", Error: "Recipe title is required"}}),
			http.StatusBadRequest, "Validation error", []string{"Recipe title is required"},
		},
		{"other", Convert(errors.New("boom"), "recipes"), http.StatusInternalServerError, errs.MessageUnhandled, nil},
		{"plain", errors.New("boom"), http.StatusInternalServerError, errs.MessageUnhandled, nil},
		{"http error", errs.NewNotFoundError("gone"), http.StatusNotFound, "gone", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := HandleError(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.Equal(t, tt.wantErrors, httpErr.Errors)
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "A recipe with this title already exists.", DuplicateMessage("recipes", "title"))
	assert.Equal(t, "A record with this identifier already exists.", DuplicateMessage("", ""))
	assert.Equal(t, "Invalid recipe ID format.", MalformedIDMessage("recipes"))
	assert.Equal(t, "Recipe not found", NotFoundMessage("recipes"))
}
