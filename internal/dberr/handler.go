package dberr

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/recipe-service/internal/errs"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return Other
}

// Convert classifies a driver error returned by an operation on collection.
//
// Behavior:
//   - nil stays nil
//   - an *Error is returned unchanged
//   - mongo.ErrNoDocuments becomes NotFound
//   - a duplicate key write/command error becomes DuplicateKey with the key field
//   - anything else becomes Other, wrapped with the collection for context
func Convert(err error, collection string) error {
	if err == nil {
		return nil
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return &Error{
			Code:       NotFound,
			Collection: collection,
			Message:    fmt.Sprintf("%s not found", modelName(collection)),
			driverErr:  err,
		}

	case mongo.IsDuplicateKeyError(err):
		return &Error{
			Code:       DuplicateKey,
			Collection: collection,
			Field:      duplicateKeyField(err),
			Message:    err.Error(),
			driverErr:  err,
		}
	}

	wrapped := pkgerrors.Wrapf(err, "collection %s", collection)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || mongo.IsTimeout(err) {
		wrapped = pkgerrors.Wrapf(err, "collection %s: timed out", collection)
	}

	return &Error{
		Code:       Other,
		Collection: collection,
		Message:    err.Error(),
		driverErr:  wrapped,
	}
}

// dupIndexRe matches the index name in E11000 messages, e.g.
// "E11000 duplicate key error collection: recipes.recipes index: title_1 dup key: { title: "Soup" }".
var dupIndexRe = regexp.MustCompile(`index: (\S+) dup key`)

// indexSuffixRe matches the direction/type suffix of a generated single-field index name.
var indexSuffixRe = regexp.MustCompile(`_(-?1|text|hashed|2d|2dsphere)$`)

// duplicateKeyField extracts the offending field from a duplicate key error.
//
// The server reports a keyPattern document on write and command errors; when
// it is missing (older servers) the index name in the message is used.
func duplicateKeyField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if field := keyPatternField(writeErr.Raw); field != "" {
				return field
			}
		}
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if field := keyPatternField(ce.Raw); field != "" {
			return field
		}
	}

	if matches := dupIndexRe.FindStringSubmatch(err.Error()); len(matches) > 1 {
		return indexSuffixRe.ReplaceAllString(matches[1], "")
	}

	return ""
}

func keyPatternField(raw bson.Raw) string {
	if len(raw) == 0 {
		return ""
	}

	value, err := raw.LookupErr("keyPattern")
	if err != nil {
		return ""
	}

	doc, ok := value.DocumentOK()
	if !ok {
		return ""
	}

	elems, err := doc.Elements()
	if err != nil || len(elems) == 0 {
		return ""
	}

	return elems[0].Key()
}

// HandleError converts a store error into the response the API returns when
// no handler classified it more precisely.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - DuplicateKey: 400 "A recipe with this title already exists."
//   - MalformedID: 400 "Invalid recipe ID format."
//   - NotFound: 404 "Recipe not found"
//   - Validation: 400 "Validation error" with per-field messages
//   - anything else: 500 "Something broke!" with the error detail
func HandleError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var dbErr *Error
	if !errors.As(err, &dbErr) {
		return errs.NewUnhandledError(err)
	}

	switch dbErr.Code {
	case DuplicateKey:
		return errs.NewBadRequestError(DuplicateMessage(dbErr.Collection, dbErr.Field), nil)
	case MalformedID:
		return errs.NewBadRequestError(MalformedIDMessage(dbErr.Collection), nil)
	case NotFound:
		return errs.NewNotFoundError(NotFoundMessage(dbErr.Collection))
	case Validation:
		return errs.NewBadRequestError("Validation error", dbErr.Violations)
	default:
		return errs.NewUnhandledError(err)
	}
}

// DuplicateMessage is the client message for a unique index violation.
// Example: "A recipe with this title already exists."
func DuplicateMessage(collection, field string) string {
	if field == "" {
		field = "identifier"
	}
	return fmt.Sprintf("A %s with this %s already exists.", entityName(collection), field)
}

// MalformedIDMessage is the client message for an unparsable identifier.
// Example: "Invalid recipe ID format."
func MalformedIDMessage(collection string) string {
	return fmt.Sprintf("Invalid %s ID format.", entityName(collection))
}

// NotFoundMessage is the client message for a missing document.
// Example: "Recipe not found"
func NotFoundMessage(collection string) string {
	return fmt.Sprintf("%s not found", modelName(collection))
}

// entityName turns a collection name into a lower-case singular noun:
// "recipes" -> "recipe", "" -> "record".
func entityName(collection string) string {
	if collection == "" {
		return "record"
	}

	entity := strings.ToLower(strings.ReplaceAll(collection, "_", " "))
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return entity
}

// modelName is the title-cased entity name: "recipes" -> "Recipe".
func modelName(collection string) string {
	return cases.Title(language.English).String(entityName(collection))
}
