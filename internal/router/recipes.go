package router

import (
	"net/http"

	"github.com/deppfellow/recipe-service/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerRecipeRoutes mounts the recipe resource under /api/recipes.
func registerRecipeRoutes(api *echo.Group, h *handler.Handlers) {
	recipes := api.Group("/recipes")

	recipes.POST("", handler.Handle(
		h.Recipes.Handler,
		h.Recipes.CreateRecipe,
		http.StatusCreated,
		func() *handler.CreateRecipeRequest { return &handler.CreateRecipeRequest{} },
	))

	recipes.GET("", handler.Handle(
		h.Recipes.Handler,
		h.Recipes.ListRecipes,
		http.StatusOK,
		func() *handler.ListRecipesRequest { return &handler.ListRecipesRequest{} },
	))

	recipes.GET("/:id", handler.Handle(
		h.Recipes.Handler,
		h.Recipes.GetRecipe,
		http.StatusOK,
		func() *handler.RecipeIDRequest { return &handler.RecipeIDRequest{} },
	))

	recipes.PUT("/:id", handler.Handle(
		h.Recipes.Handler,
		h.Recipes.UpdateRecipe,
		http.StatusOK,
		func() *handler.UpdateRecipeRequest { return &handler.UpdateRecipeRequest{} },
	))

	recipes.DELETE("/:id", handler.Handle(
		h.Recipes.Handler,
		h.Recipes.DeleteRecipe,
		http.StatusOK,
		func() *handler.RecipeIDRequest { return &handler.RecipeIDRequest{} },
	))
}
