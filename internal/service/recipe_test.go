package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/recipe-service/internal/dberr"
	"github.com/deppfellow/recipe-service/internal/lib/job"
	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/deppfellow/recipe-service/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRecipeEvent(ctx context.Context, taskType string, recipe *model.Recipe) error {
	args := m.Called(ctx, taskType, recipe)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)

func newTestService(t *testing.T, events EventPublisher) (*RecipeService, *testhelpers.RecipeStore) {
	t.Helper()
	store := testhelpers.NewRecipeStore()
	svc := NewRecipeService(store, events, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func input(t *testing.T, body string) model.RecipeInput {
	t.Helper()
	var in model.RecipeInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

const soup = `{"title":"  Soup  ","description":"Warm","ingredients":["water"],"instructions":"Boil"}`

func TestRecipeService_Create(t *testing.T) {
	svc, store := newTestService(t, nil)

	recipe, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)

	assert.False(t, recipe.ID.IsZero())
	assert.Equal(t, "Soup", recipe.Title)
	assert.Equal(t, model.DifficultyMedium, recipe.Difficulty)
	assert.Equal(t, fixedNow.Truncate(time.Millisecond), recipe.CreatedAt)
	assert.Equal(t, recipe.CreatedAt, recipe.UpdatedAt)
	assert.Nil(t, recipe.Servings)
	assert.Equal(t, 1, store.Len())
}

func TestRecipeService_Create_Validation(t *testing.T) {
	svc, store := newTestService(t, nil)

	_, err := svc.Create(context.Background(), input(t,
		`{"title":"Soup","description":"Warm","ingredients":["water"],"instructions":"Boil","servings":0,"difficulty":"Extreme"}`))
	require.Error(t, err)
	assert.Equal(t, dberr.Validation, dberr.ErrCode(err))
	assert.Equal(t,
		"Recipe validation failed: servings: Path `servings` (0) is less than minimum allowed value (1)., "+
			"difficulty: `Extreme` is not a valid enum value for path `difficulty`.",
		err.Error(),
	)
	assert.Equal(t, 0, store.Calls("Create"))
}

func TestRecipeService_Create_DuplicateTitle(t *testing.T) {
	svc, store := newTestService(t, nil)

	_, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input(t, soup))
	require.Error(t, err)
	assert.Equal(t, dberr.DuplicateKey, dberr.ErrCode(err))
	assert.Equal(t, 1, store.Len())
}

func TestRecipeService_Create_PublishesEvent(t *testing.T) {
	events := new(mockPublisher)
	events.On("PublishRecipeEvent", mock.Anything, job.TaskRecipeCreated, mock.AnythingOfType("*model.Recipe")).
		Return(errors.New("redis down")).Once()

	svc, _ := newTestService(t, events)

	// A failed publish does not fail the operation.
	recipe, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)
	assert.NotNil(t, recipe)
	events.AssertExpectations(t)
}

func TestRecipeService_Get(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)

	found, err := svc.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = svc.Get(context.Background(), "not-a-valid-id")
	assert.Equal(t, dberr.MalformedID, dberr.ErrCode(err))

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.Equal(t, dberr.NotFound, dberr.ErrCode(err))
}

func TestRecipeService_Update(t *testing.T) {
	events := new(mockPublisher)
	events.On("PublishRecipeEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc, _ := newTestService(t, events)

	created, err := svc.Create(context.Background(), input(t,
		`{"title":"Soup","description":"Warm","ingredients":["water"],"instructions":"Boil","cookTime":10}`))
	require.NoError(t, err)

	later := fixedNow.Add(time.Minute)
	svc.now = func() time.Time { return later }

	updated, err := svc.Update(context.Background(), created.ID.Hex(),
		input(t, `{"title":" Broth ","servings":4,"cookTime":null,"id":"ignored","createdAt":"2000-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Broth", updated.Title)
	assert.Equal(t, "Warm", updated.Description)
	require.NotNil(t, updated.Servings)
	assert.Equal(t, 4, *updated.Servings)
	assert.Nil(t, updated.CookTime)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, later.Truncate(time.Millisecond), updated.UpdatedAt)

	events.AssertCalled(t, "PublishRecipeEvent", mock.Anything, job.TaskRecipeUpdated, mock.Anything)
}

func TestRecipeService_Update_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)

	soupRecipe, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), input(t,
		`{"title":"Stew","description":"Thick","ingredients":["beef"],"instructions":"Simmer"}`))
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		body string
		want dberr.Code
	}{
		{"malformed id wins over validation", "nope", `{"servings":0}`, dberr.MalformedID},
		{"duplicate title", soupRecipe.ID.Hex(), `{"title":"Stew"}`, dberr.DuplicateKey},
		{"servings below minimum", soupRecipe.ID.Hex(), `{"servings":0}`, dberr.Validation},
		{"required field cleared", soupRecipe.ID.Hex(), `{"description":""}`, dberr.Validation},
		{"required field nulled", soupRecipe.ID.Hex(), `{"title":null}`, dberr.Validation},
		{"mistyped field", soupRecipe.ID.Hex(), `{"prepTime":"soon"}`, dberr.Validation},
		{"unknown id", primitive.NewObjectID().Hex(), `{"servings":2}`, dberr.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.id, input(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.want, dberr.ErrCode(err))
		})
	}
}

func TestRecipeService_Update_SameTitleIsNotDuplicate(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID.Hex(), input(t, `{"title":"Soup"}`))
	assert.NoError(t, err)
}

func TestRecipeService_Delete(t *testing.T) {
	svc, store := newTestService(t, nil)

	created, err := svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, 0, store.Len())

	_, err = svc.Delete(context.Background(), created.ID.Hex())
	assert.Equal(t, dberr.NotFound, dberr.ErrCode(err))

	_, err = svc.Delete(context.Background(), "123")
	assert.Equal(t, dberr.MalformedID, dberr.ErrCode(err))
}

func TestRecipeService_List(t *testing.T) {
	svc, store := newTestService(t, nil)

	recipes, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)

	_, err = svc.Create(context.Background(), input(t, soup))
	require.NoError(t, err)

	recipes, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	store.Err = errors.New("connection reset")
	_, err = svc.List(context.Background())
	assert.Equal(t, dberr.Other, dberr.ErrCode(err))
}
