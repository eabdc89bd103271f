package handler

import (
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/deppfellow/recipe-service/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Recipes *RecipeHandler  // Recipes serves the /api/recipes resource.
	Health  *HealthHandler  // Health serves the dependency status endpoint.
	OpenAPI *OpenAPIHandler // OpenAPI serves the API description.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Recipes: NewRecipeHandler(s, services.Recipes),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
