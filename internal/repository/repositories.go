package repository

import (
	"github.com/deppfellow/recipe-service/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Recipes *RecipeRepository
}

// NewRepositories constructs the repository container from the shared
// database handle on s.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Recipes: NewRecipeRepository(s.DB.Recipes()),
	}
}
