package model

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether it was present in the
// payload, whether it was an explicit null, and whether it could be decoded
// into T at all.
//
// Decoding a Field never fails. Compatible values are cast to T (see
// castJSON); a value that cannot be cast is kept as raw JSON and reported by
// CastFailed, so schema validation can report every problem of a payload at
// once instead of stopping at the first one.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool

	raw     []byte
	castErr error
}

// Of returns a present, non-null Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	f.raw = append(f.raw[:0], b...)

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}

	null, err := castJSON(b, &f.Value)
	if err != nil {
		var zero T
		f.Value = zero
		f.castErr = err
		return nil
	}
	f.Null = null
	return nil
}

// MarshalJSON implements json.Marshaler. Absent and null fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	if f.castErr != nil {
		return f.raw, nil
	}
	return json.Marshal(f.Value)
}

// Present reports whether the field carries a usable, non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null && f.castErr == nil
}

// CastFailed reports whether the field was supplied with a value of the wrong type.
func (f Field[T]) CastFailed() bool {
	return f.castErr != nil
}

// Raw returns the JSON text exactly as supplied.
func (f Field[T]) Raw() string {
	return string(f.raw)
}

// Truthy applies JavaScript truthiness to the value as supplied, before
// any cast: absent, null, "", 0 and false are falsy; every array, including
// an empty one, is truthy.
func (f Field[T]) Truthy() bool {
	if !f.Set {
		return false
	}
	if len(f.raw) > 0 {
		return truthyJSON(f.raw)
	}
	if f.Null {
		return false
	}

	switch v := any(f.Value).(type) {
	case string:
		return v != ""
	case Difficulty:
		return v != ""
	case int:
		return v != 0
	case []string:
		return true
	}
	return true
}

// Ptr returns a pointer to the value when present, nil otherwise.
func (f Field[T]) Ptr() *T {
	if !f.Present() {
		return nil
	}
	v := f.Value
	return &v
}

// RecipeInput is the set of recognised recipe fields of a request body.
// Unrecognised keys are dropped by the decoder.
type RecipeInput struct {
	Title        Field[string]     `json:"title"`
	Description  Field[string]     `json:"description"`
	Ingredients  Field[[]string]   `json:"ingredients"`
	Instructions Field[string]     `json:"instructions"`
	PrepTime     Field[int]        `json:"prepTime"`
	CookTime     Field[int]        `json:"cookTime"`
	Servings     Field[int]        `json:"servings"`
	Difficulty   Field[Difficulty] `json:"difficulty"`
}
