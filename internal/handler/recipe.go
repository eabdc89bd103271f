package handler

import (
	"errors"

	"github.com/deppfellow/recipe-service/internal/dberr"
	"github.com/deppfellow/recipe-service/internal/errs"
	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/deppfellow/recipe-service/internal/service"
	"github.com/labstack/echo/v4"
)

// Client-facing messages of the recipe resource.
const (
	MessageMissingFields  = "Please include all required fields: title, description, ingredients, instructions."
	MessageDuplicateTitle = "A recipe with this title already exists."
	MessageInvalidID      = "Invalid recipe ID format."
	MessageNotFound       = "Recipe not found"
	MessageValidation     = "Validation error"
	MessageDeleted        = "Recipe deleted successfully"

	MessageCreateFailed = "Error creating recipe"
	MessageListFailed   = "Error fetching recipes"
	MessageGetFailed    = "Error fetching recipe"
	MessageUpdateFailed = "Error updating recipe"
	MessageDeleteFailed = "Error deleting recipe"
)

// CreateRecipeRequest is the body of POST /api/recipes.
type CreateRecipeRequest struct {
	model.RecipeInput
}

// Validate rejects a body missing any required field before the store is
// called. Presence follows JavaScript truthiness: "", 0, false and null count
// as missing, an empty ingredients list does not.
func (r *CreateRecipeRequest) Validate() error {
	if !r.Title.Truthy() || !r.Description.Truthy() || !r.Ingredients.Truthy() || !r.Instructions.Truthy() {
		return errs.NewBadRequestError(MessageMissingFields, nil)
	}
	return nil
}

// ListRecipesRequest is the (empty) input of GET /api/recipes.
type ListRecipesRequest struct{}

func (r *ListRecipesRequest) Validate() error {
	return nil
}

// RecipeIDRequest addresses a single recipe. The id syntax is checked by
// the store, not here.
type RecipeIDRequest struct {
	ID string `param:"id" json:"-"`
}

func (r *RecipeIDRequest) Validate() error {
	return nil
}

// UpdateRecipeRequest is the input of PUT /api/recipes/:id. An "id" key in
// the body is ignored.
type UpdateRecipeRequest struct {
	ID string `param:"id" json:"-"`
	model.RecipeInput
}

func (r *UpdateRecipeRequest) Validate() error {
	return nil
}

// DeleteRecipeResponse is the body of a successful DELETE.
type DeleteRecipeResponse struct {
	Message       string        `json:"message"`
	DeletedRecipe *model.Recipe `json:"deletedRecipe"`
}

// RecipeHandler is the recipe handler set: five linear
// bind, call, map sequences over the recipe service.
type RecipeHandler struct {
	Handler
	recipes *service.RecipeService
}

// NewRecipeHandler constructs a RecipeHandler.
func NewRecipeHandler(s *server.Server, recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		Handler: NewHandler(s),
		recipes: recipes,
	}
}

// CreateRecipe handles POST /api/recipes.
func (h *RecipeHandler) CreateRecipe(c echo.Context, req *CreateRecipeRequest) (*model.Recipe, error) {
	recipe, err := h.recipes.Create(c.Request().Context(), req.RecipeInput)
	if err != nil {
		if dberr.ErrCode(err) == dberr.DuplicateKey {
			return nil, errs.NewBadRequestError(MessageDuplicateTitle, nil)
		}
		return nil, errs.NewInternalServerError(MessageCreateFailed, err)
	}

	return recipe, nil
}

// ListRecipes handles GET /api/recipes.
func (h *RecipeHandler) ListRecipes(c echo.Context, _ *ListRecipesRequest) ([]model.Recipe, error) {
	recipes, err := h.recipes.List(c.Request().Context())
	if err != nil {
		return nil, errs.NewInternalServerError(MessageListFailed, err)
	}

	return recipes, nil
}

// GetRecipe handles GET /api/recipes/:id.
func (h *RecipeHandler) GetRecipe(c echo.Context, req *RecipeIDRequest) (*model.Recipe, error) {
	recipe, err := h.recipes.Get(c.Request().Context(), req.ID)
	if err != nil {
		switch dberr.ErrCode(err) {
		case dberr.MalformedID:
			return nil, errs.NewBadRequestError(MessageInvalidID, nil)
		case dberr.NotFound:
			return nil, errs.NewNotFoundError(MessageNotFound)
		default:
			return nil, errs.NewInternalServerError(MessageGetFailed, err)
		}
	}

	return recipe, nil
}

// UpdateRecipe handles PUT /api/recipes/:id.
//
// Errors map in priority order: malformed id, duplicate title, other
// validation failures, missing recipe, anything else.
func (h *RecipeHandler) UpdateRecipe(c echo.Context, req *UpdateRecipeRequest) (*model.Recipe, error) {
	recipe, err := h.recipes.Update(c.Request().Context(), req.ID, req.RecipeInput)
	if err != nil {
		switch dberr.ErrCode(err) {
		case dberr.MalformedID:
			return nil, errs.NewBadRequestError(MessageInvalidID, nil)
		case dberr.DuplicateKey:
			return nil, errs.NewBadRequestError(MessageDuplicateTitle, nil)
		case dberr.Validation:
			return nil, errs.NewBadRequestError(MessageValidation, violations(err))
		case dberr.NotFound:
			return nil, errs.NewNotFoundError(MessageNotFound)
		default:
			return nil, errs.NewInternalServerError(MessageUpdateFailed, err)
		}
	}

	return recipe, nil
}

// DeleteRecipe handles DELETE /api/recipes/:id.
func (h *RecipeHandler) DeleteRecipe(c echo.Context, req *RecipeIDRequest) (*DeleteRecipeResponse, error) {
	recipe, err := h.recipes.Delete(c.Request().Context(), req.ID)
	if err != nil {
		switch dberr.ErrCode(err) {
		case dberr.MalformedID:
			return nil, errs.NewBadRequestError(MessageInvalidID, nil)
		case dberr.NotFound:
			return nil, errs.NewNotFoundError(MessageNotFound)
		default:
			return nil, errs.NewInternalServerError(MessageDeleteFailed, err)
		}
	}

	return &DeleteRecipeResponse{
		Message:       MessageDeleted,
		DeletedRecipe: recipe,
	}, nil
}

func violations(err error) []errs.FieldError {
	var dbErr *dberr.Error
	if errors.As(err, &dbErr) {
		return dbErr.Violations
	}
	return nil
}
