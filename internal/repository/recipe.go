package repository

import (
	"context"

	"github.com/deppfellow/recipe-service/internal/dberr"
	"github.com/deppfellow/recipe-service/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeRepository persists recipes in a single collection.
type RecipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository wraps coll.
func NewRecipeRepository(coll *mongo.Collection) *RecipeRepository {
	return &RecipeRepository{coll: coll}
}

// Collection is the name of the backing collection.
func (r *RecipeRepository) Collection() string {
	return r.coll.Name()
}

// Create inserts recipe. The unique title index rejects duplicates with a
// dberr.DuplicateKey error.
func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, recipe); err != nil {
		return nil, dberr.Convert(err, r.Collection())
	}

	return recipe, nil
}

// FindAll returns every recipe in natural order. The result is never nil.
func (r *RecipeRepository) FindAll(ctx context.Context) ([]model.Recipe, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, dberr.Convert(err, r.Collection())
	}

	recipes := make([]model.Recipe, 0)
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, dberr.Convert(err, r.Collection())
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	return recipes, nil
}

// FindByID returns the recipe with id, or a dberr.NotFound error.
func (r *RecipeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.coll.FindOne(ctx, bson.D{{Key: model.FieldID, Value: id}}).Decode(&recipe); err != nil {
		return nil, dberr.Convert(err, r.Collection())
	}

	return &recipe, nil
}

// Update applies set and unset to the recipe with id and returns the
// document as it is after the update.
//
// set must not be empty; the caller always refreshes updatedAt.
func (r *RecipeRepository) Update(ctx context.Context, id primitive.ObjectID, set, unset bson.D) (*model.Recipe, error) {
	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var recipe model.Recipe
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: model.FieldID, Value: id}}, update, opts).Decode(&recipe)
	if err != nil {
		return nil, dberr.Convert(err, r.Collection())
	}

	return &recipe, nil
}

// Delete removes the recipe with id and returns it as it was.
func (r *RecipeRepository) Delete(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: model.FieldID, Value: id}}).Decode(&recipe); err != nil {
		return nil, dberr.Convert(err, r.Collection())
	}

	return &recipe, nil
}
