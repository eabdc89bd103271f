package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/hibiken/asynq"
)

// Task type names stored in Redis. Asynq routes on these strings.
const (
	TaskRecipeCreated = "recipe:created"
	TaskRecipeUpdated = "recipe:updated"
	TaskRecipeDeleted = "recipe:deleted"
)

// RecipeEventPayload is the JSON payload of a recipe lifecycle task.
type RecipeEventPayload struct {
	RecipeID   string    `json:"recipe_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRecipeEventTask builds a lifecycle task for recipe.
//
// Events are informational: MaxRetry(3) on the "default" queue, and a
// handler running longer than 30s is cancelled.
func NewRecipeEventTask(taskType string, recipe *model.Recipe) (*asynq.Task, error) {
	switch taskType {
	case TaskRecipeCreated, TaskRecipeUpdated, TaskRecipeDeleted:
	default:
		return nil, fmt.Errorf("unknown recipe event %q", taskType)
	}

	occurredAt := recipe.UpdatedAt
	if taskType == TaskRecipeDeleted || occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(RecipeEventPayload{
		RecipeID:   recipe.ID.Hex(),
		Title:      recipe.Title,
		OccurredAt: occurredAt,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
