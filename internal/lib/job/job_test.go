package job

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/recipe-service/internal/config"
	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testRecipe() *model.Recipe {
	return &model.Recipe{
		ID:        primitive.NewObjectID(),
		Title:     "Soup",
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewRecipeEventTask(t *testing.T) {
	recipe := testRecipe()

	task, err := NewRecipeEventTask(TaskRecipeUpdated, recipe)
	require.NoError(t, err)
	assert.Equal(t, TaskRecipeUpdated, task.Type())

	var p RecipeEventPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, recipe.ID.Hex(), p.RecipeID)
	assert.Equal(t, "Soup", p.Title)
	assert.True(t, recipe.UpdatedAt.Equal(p.OccurredAt))

	_, err = NewRecipeEventTask("recipe:archived", recipe)
	assert.Error(t, err)
}

func TestHandleRecipeEventTask(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	j := &JobService{logger: &logger}

	task, err := NewRecipeEventTask(TaskRecipeCreated, testRecipe())
	require.NoError(t, err)

	require.NoError(t, j.handleRecipeEventTask(context.Background(), task))
	assert.Contains(t, buf.String(), "Processed recipe event")
	assert.Contains(t, buf.String(), `"type":"recipe:created"`)

	err = j.handleRecipeEventTask(context.Background(), asynq.NewTask(TaskRecipeCreated, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestPublishRecipeEvent(t *testing.T) {
	mr := miniredis.RunT(t)

	logger := zerolog.Nop()
	cfg := &config.Config{Redis: config.RedisConfig{Address: mr.Addr()}}
	j := NewJobService(&logger, cfg)
	t.Cleanup(func() { _ = j.Client.Close() })

	require.NoError(t, j.PublishRecipeEvent(context.Background(), TaskRecipeDeleted, testRecipe()))
	assert.True(t, mr.Exists("asynq:{default}:pending"))
}
