// Package model holds the persisted document types.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty is the enumerated preparation difficulty of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"

	// DefaultDifficulty is stored when a recipe is created without one.
	DefaultDifficulty = DifficultyMedium
)

// Difficulties lists the accepted values in schema order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Recipe is the sole document of the recipes collection.
//
// The validate tags are the schema: they are checked before every write.
// Times are stored with millisecond precision.
type Recipe struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title" validate:"required"`
	Description  string             `json:"description" bson:"description" validate:"required"`
	Ingredients  []string           `json:"ingredients" bson:"ingredients" validate:"required"`
	Instructions string             `json:"instructions" bson:"instructions" validate:"required"`
	PrepTime     *int               `json:"prepTime,omitempty" bson:"prepTime,omitempty" validate:"omitempty,min=0"`
	CookTime     *int               `json:"cookTime,omitempty" bson:"cookTime,omitempty" validate:"omitempty,min=0"`
	Servings     *int               `json:"servings,omitempty" bson:"servings,omitempty" validate:"omitempty,min=1"`
	Difficulty   Difficulty         `json:"difficulty,omitempty" bson:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Document field names, shared by the repository and the update builder.
const (
	FieldID           = "_id"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldIngredients  = "ingredients"
	FieldInstructions = "instructions"
	FieldPrepTime     = "prepTime"
	FieldCookTime     = "cookTime"
	FieldServings     = "servings"
	FieldDifficulty   = "difficulty"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"
)
