package service

import (
	"context"
	"strings"
	"time"

	"github.com/deppfellow/recipe-service/internal/dberr"
	"github.com/deppfellow/recipe-service/internal/lib/job"
	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/deppfellow/recipe-service/internal/validation"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipeRepository is the persistence the recipe service needs.
type RecipeRepository interface {
	Collection() string
	Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	FindAll(ctx context.Context) ([]model.Recipe, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error)
	Update(ctx context.Context, id primitive.ObjectID, set, unset bson.D) (*model.Recipe, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error)
}

// EventPublisher receives recipe lifecycle events.
type EventPublisher interface {
	PublishRecipeEvent(ctx context.Context, taskType string, recipe *model.Recipe) error
}

// RecipeService is the recipe store: the schema and the five operations.
//
// Every failure it returns is a *dberr.Error.
type RecipeService struct {
	repo   RecipeRepository
	events EventPublisher
	logger *zerolog.Logger
	now    func() time.Time
}

// NewRecipeService creates a RecipeService. events may be nil.
func NewRecipeService(repo RecipeRepository, events EventPublisher, logger *zerolog.Logger) *RecipeService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &RecipeService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates in against the whole schema and inserts it.
//
// Title is trimmed, difficulty defaults to Medium, and both timestamps are
// set to the same instant.
func (s *RecipeService) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	doc := candidate(in)
	if !in.Difficulty.Set || in.Difficulty.Null {
		doc.Difficulty = model.DefaultDifficulty
	}

	if violations := validation.ValidateRecipe(in, doc, validation.AllFields); len(violations) > 0 {
		return nil, dberr.NewValidationError(s.repo.Collection(), violations)
	}

	now := s.timestamp()
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	recipe, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, job.TaskRecipeCreated, recipe)
	return recipe, nil
}

// List returns every recipe in storage order.
func (s *RecipeService) List(ctx context.Context) ([]model.Recipe, error) {
	return s.repo.FindAll(ctx)
}

// Get returns the recipe with id.
func (s *RecipeService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, oid)
}

// Update validates the supplied fields of in against the schema and applies
// them to the recipe with id.
//
// Supplied fields are set; optional fields supplied as null are removed;
// absent fields keep their stored value. updatedAt is always refreshed.
// The identifier is checked first, then the fields, then existence.
func (s *RecipeService) Update(ctx context.Context, id string, in model.RecipeInput) (*model.Recipe, error) {
	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	doc := candidate(in)
	if violations := validation.ValidateRecipe(in, doc, validation.SuppliedFields); len(violations) > 0 {
		return nil, dberr.NewValidationError(s.repo.Collection(), violations)
	}

	set, unset := updateDocuments(in, doc)
	set = append(set, bson.E{Key: model.FieldUpdatedAt, Value: s.timestamp()})

	recipe, err := s.repo.Update(ctx, oid, set, unset)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, job.TaskRecipeUpdated, recipe)
	return recipe, nil
}

// Delete removes the recipe with id and returns it as it was.
func (s *RecipeService) Delete(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, job.TaskRecipeDeleted, recipe)
	return recipe, nil
}

func (s *RecipeService) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, dberr.NewMalformedIDError(s.repo.Collection(), id)
	}
	return oid, nil
}

// timestamp is the current time at the store's millisecond precision.
func (s *RecipeService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// publish hands the event over without affecting the operation's outcome.
func (s *RecipeService) publish(ctx context.Context, taskType string, recipe *model.Recipe) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishRecipeEvent(ctx, taskType, recipe); err != nil {
		s.logger.Warn().
			Err(err).
			Str("type", taskType).
			Str("recipe_id", recipe.ID.Hex()).
			Msg("failed to publish recipe event")
	}
}

// candidate is the document in describes, with the title trimmed.
// Absent, null and mistyped fields are left at their zero value.
func candidate(in model.RecipeInput) *model.Recipe {
	return &model.Recipe{
		Title:        strings.TrimSpace(in.Title.Value),
		Description:  in.Description.Value,
		Ingredients:  in.Ingredients.Value,
		Instructions: in.Instructions.Value,
		PrepTime:     in.PrepTime.Ptr(),
		CookTime:     in.CookTime.Ptr(),
		Servings:     in.Servings.Ptr(),
		Difficulty:   in.Difficulty.Value,
	}
}

// updateDocuments splits the supplied fields of in into $set and $unset
// documents, in schema order. Values are taken from the validated doc.
func updateDocuments(in model.RecipeInput, doc *model.Recipe) (set, unset bson.D) {
	type field struct {
		name  string
		set   bool
		null  bool
		value any
	}

	fields := []field{
		{model.FieldTitle, in.Title.Set, in.Title.Null, doc.Title},
		{model.FieldDescription, in.Description.Set, in.Description.Null, doc.Description},
		{model.FieldIngredients, in.Ingredients.Set, in.Ingredients.Null, doc.Ingredients},
		{model.FieldInstructions, in.Instructions.Set, in.Instructions.Null, doc.Instructions},
		{model.FieldPrepTime, in.PrepTime.Set, in.PrepTime.Null, doc.PrepTime},
		{model.FieldCookTime, in.CookTime.Set, in.CookTime.Null, doc.CookTime},
		{model.FieldServings, in.Servings.Set, in.Servings.Null, doc.Servings},
		{model.FieldDifficulty, in.Difficulty.Set, in.Difficulty.Null, doc.Difficulty},
	}

	set = bson.D{}
	for _, f := range fields {
		switch {
		case !f.set:
		case f.null:
			unset = append(unset, bson.E{Key: f.name, Value: ""})
		default:
			set = append(set, bson.E{Key: f.name, Value: f.value})
		}
	}

	return set, unset
}
