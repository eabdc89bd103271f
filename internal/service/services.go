package service

import (
	"github.com/deppfellow/recipe-service/internal/lib/job"
	"github.com/deppfellow/recipe-service/internal/repository"
	"github.com/deppfellow/recipe-service/internal/server"
)

// Services is a container for all service instances.
type Services struct {
	Recipes *RecipeService
	Job     *job.JobService
}

// NewServices wires services to their repositories. Lifecycle events are
// published only when a job service exists (Redis configured).
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var events EventPublisher
	if s.Job != nil {
		events = s.Job
	}

	return &Services{
		Recipes: NewRecipeService(repos.Recipes, events, s.Logger),
		Job:     s.Job,
	}, nil
}
