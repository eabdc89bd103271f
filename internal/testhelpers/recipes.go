// Package testhelpers provides in-process stand-ins for the document store.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deppfellow/recipe-service/internal/dberr"
	"github.com/deppfellow/recipe-service/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RecipeStore is an in-memory recipe repository.
//
// It keeps insertion order, enforces the unique title index, and reports
// failures through dberr.Convert exactly as the driver-backed repository
// does. Returned recipes are copies.
type RecipeStore struct {
	mu      sync.Mutex
	recipes []model.Recipe
	calls   map[string]int

	// Err, when set, is returned (converted) by every operation.
	Err error
}

// NewRecipeStore creates an empty store.
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{calls: make(map[string]int)}
}

// Collection implements the repository interface.
func (s *RecipeStore) Collection() string {
	return "recipes"
}

// Calls reports how many times op ("Create", "FindAll", ...) was invoked.
func (s *RecipeStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Len is the number of stored recipes.
func (s *RecipeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

func (s *RecipeStore) Create(_ context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Create"]++

	if s.Err != nil {
		return nil, dberr.Convert(s.Err, s.Collection())
	}
	if err := s.checkTitle(recipe.Title, primitive.NilObjectID); err != nil {
		return nil, err
	}

	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	s.recipes = append(s.recipes, clone(*recipe))

	out := clone(*recipe)
	return &out, nil
}

func (s *RecipeStore) FindAll(_ context.Context) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["FindAll"]++

	if s.Err != nil {
		return nil, dberr.Convert(s.Err, s.Collection())
	}

	out := make([]model.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, clone(r))
	}
	return out, nil
}

func (s *RecipeStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["FindByID"]++

	if s.Err != nil {
		return nil, dberr.Convert(s.Err, s.Collection())
	}

	i := s.index(id)
	if i < 0 {
		return nil, dberr.Convert(mongo.ErrNoDocuments, s.Collection())
	}

	out := clone(s.recipes[i])
	return &out, nil
}

func (s *RecipeStore) Update(_ context.Context, id primitive.ObjectID, set, unset bson.D) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Update"]++

	if s.Err != nil {
		return nil, dberr.Convert(s.Err, s.Collection())
	}

	i := s.index(id)
	if i < 0 {
		return nil, dberr.Convert(mongo.ErrNoDocuments, s.Collection())
	}

	updated := clone(s.recipes[i])
	for _, e := range set {
		if err := assign(&updated, e.Key, e.Value); err != nil {
			return nil, dberr.Convert(err, s.Collection())
		}
	}
	for _, e := range unset {
		if err := assign(&updated, e.Key, nil); err != nil {
			return nil, dberr.Convert(err, s.Collection())
		}
	}

	if err := s.checkTitle(updated.Title, id); err != nil {
		return nil, err
	}

	s.recipes[i] = updated
	out := clone(updated)
	return &out, nil
}

func (s *RecipeStore) Delete(_ context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Delete"]++

	if s.Err != nil {
		return nil, dberr.Convert(s.Err, s.Collection())
	}

	i := s.index(id)
	if i < 0 {
		return nil, dberr.Convert(mongo.ErrNoDocuments, s.Collection())
	}

	removed := s.recipes[i]
	s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
	return &removed, nil
}

func (s *RecipeStore) index(id primitive.ObjectID) int {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			return i
		}
	}
	return -1
}

// checkTitle mimics the unique title index.
func (s *RecipeStore) checkTitle(title string, self primitive.ObjectID) error {
	for _, r := range s.recipes {
		if r.Title == title && r.ID != self {
			return dberr.Convert(mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code: 11000,
				Message: fmt.Sprintf(
					"E11000 duplicate key error collection: recipes.%s index: title_1 dup key: { title: %q }",
					s.Collection(), title,
				),
			}}}, s.Collection())
		}
	}
	return nil
}

func assign(r *model.Recipe, key string, value any) error {
	switch key {
	case model.FieldTitle:
		r.Title, _ = value.(string)
	case model.FieldDescription:
		r.Description, _ = value.(string)
	case model.FieldIngredients:
		r.Ingredients, _ = value.([]string)
	case model.FieldInstructions:
		r.Instructions, _ = value.(string)
	case model.FieldPrepTime:
		r.PrepTime = intValue(value)
	case model.FieldCookTime:
		r.CookTime = intValue(value)
	case model.FieldServings:
		r.Servings = intValue(value)
	case model.FieldDifficulty:
		r.Difficulty, _ = value.(model.Difficulty)
	case model.FieldUpdatedAt:
		r.UpdatedAt, _ = value.(time.Time)
	default:
		return fmt.Errorf("unsupported update field %q", key)
	}
	return nil
}

func intValue(value any) *int {
	switch v := value.(type) {
	case *int:
		if v == nil {
			return nil
		}
		n := *v
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

func clone(r model.Recipe) model.Recipe {
	if r.Ingredients != nil {
		r.Ingredients = append([]string{}, r.Ingredients...)
	}
	r.PrepTime = intValue(r.PrepTime)
	r.CookTime = intValue(r.CookTime)
	r.Servings = intValue(r.Servings)
	return r
}
