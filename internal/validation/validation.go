// Package validation checks recipe documents against the schema.
//
// The rules live in the validate tags of model.Recipe and are enforced with
// the validator library. Violations are reported per field, in schema order,
// with the messages clients of this API already know.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/deppfellow/recipe-service/internal/errs"
	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/go-playground/validator/v10"
)

// Scope selects which fields of an input are checked.
type Scope int

const (
	// AllFields checks every schema field, supplied or not. Used on create.
	AllFields Scope = iota
	// SuppliedFields checks only the fields present in the input. Used on
	// update, where absent fields keep their stored, already valid, value.
	SuppliedFields
)

// schemaOrder is the declaration order of the schema fields.
var schemaOrder = []string{
	model.FieldTitle,
	model.FieldDescription,
	model.FieldIngredients,
	model.FieldInstructions,
	model.FieldPrepTime,
	model.FieldCookTime,
	model.FieldServings,
	model.FieldDifficulty,
}

var requiredMessages = map[string]string{
	model.FieldTitle:        "Recipe title is required",
	model.FieldDescription:  "Recipe description is required",
	model.FieldIngredients:  "Ingredients are required",
	model.FieldInstructions: "Instructions are required",
}

var (
	schemaValidator *validator.Validate
	validatorOnce   sync.Once
)

// Validator returns the shared validator, which reports JSON field names.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		schemaValidator = validator.New(validator.WithRequiredStructEnabled())
		schemaValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return schemaValidator
}

// ValidateRecipe checks doc, the document that would be written for in.
//
// Fields of in that could not be cast to their schema type are reported as
// cast failures and take precedence over rule violations on the same field.
func ValidateRecipe(in model.RecipeInput, doc *model.Recipe, scope Scope) []errs.FieldError {
	casts := castViolations(in)
	rules := ruleViolations(doc)
	supplied := suppliedFields(in)

	// omitempty lets an empty string through; a supplied empty difficulty
	// is still outside the enum.
	if in.Difficulty.Present() && in.Difficulty.Value == "" {
		rules[model.FieldDifficulty] = fmt.Sprintf("`` is not a valid enum value for path `%s`.", model.FieldDifficulty)
	}

	var violations []errs.FieldError
	for _, field := range schemaOrder {
		if scope == SuppliedFields && !supplied[field] {
			continue
		}

		if msg, ok := casts[field]; ok {
			violations = append(violations, errs.FieldError{Field: field, Error: msg})
			continue
		}
		if msg, ok := rules[field]; ok {
			violations = append(violations, errs.FieldError{Field: field, Error: msg})
		}
	}

	return violations
}

// ruleViolations runs the struct tags of doc and keeps the first failure per field.
func ruleViolations(doc *model.Recipe) map[string]string {
	out := make(map[string]string)

	err := Validator().Struct(doc)
	if err == nil {
		return out
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}

	for _, fe := range validationErrors {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}

	return out
}

// message renders one validator failure.
func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
		return fmt.Sprintf("Path `%s` is required.", field)

	case "min":
		return fmt.Sprintf("Path `%s` (%v) is less than minimum allowed value (%s).", field, deref(fe.Value()), fe.Param())

	case "max":
		return fmt.Sprintf("Path `%s` (%v) is more than maximum allowed value (%s).", field, deref(fe.Value()), fe.Param())

	case "oneof":
		return fmt.Sprintf("`%v` is not a valid enum value for path `%s`.", deref(fe.Value()), field)

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("Validator failed for path `%s`: %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("Validator failed for path `%s`: %s", field, fe.Tag())
	}
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func suppliedFields(in model.RecipeInput) map[string]bool {
	return map[string]bool{
		model.FieldTitle:        in.Title.Set,
		model.FieldDescription:  in.Description.Set,
		model.FieldIngredients:  in.Ingredients.Set,
		model.FieldInstructions: in.Instructions.Set,
		model.FieldPrepTime:     in.PrepTime.Set,
		model.FieldCookTime:     in.CookTime.Set,
		model.FieldServings:     in.Servings.Set,
		model.FieldDifficulty:   in.Difficulty.Set,
	}
}

func castViolations(in model.RecipeInput) map[string]string {
	out := make(map[string]string)

	addCast(out, model.FieldTitle, "string", in.Title)
	addCast(out, model.FieldDescription, "string", in.Description)
	addCast(out, model.FieldIngredients, "[string]", in.Ingredients)
	addCast(out, model.FieldInstructions, "string", in.Instructions)
	addCast(out, model.FieldPrepTime, "Number", in.PrepTime)
	addCast(out, model.FieldCookTime, "Number", in.CookTime)
	addCast(out, model.FieldServings, "Number", in.Servings)
	addCast(out, model.FieldDifficulty, "string", in.Difficulty)

	return out
}

func addCast[T any](out map[string]string, path, kind string, f model.Field[T]) {
	if !f.CastFailed() {
		return
	}
	out[path] = fmt.Sprintf("Cast to %s failed for value %s (type %s) at path %q", kind, f.Raw(), jsonType(f.Raw()), path)
}

// jsonType names the JSON type of raw the way JavaScript's typeof would.
func jsonType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "undefined"
	}

	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "Object"
	case '[':
		return "Array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
