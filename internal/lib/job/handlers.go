package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// handleRecipeEventTask records a recipe lifecycle event.
//
// A payload that cannot be decoded will never succeed, so it is not retried.
func (j *JobService) handleRecipeEventTask(ctx context.Context, t *asynq.Task) error {
	var p RecipeEventPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal recipe event payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", t.Type()).
		Str("recipe_id", p.RecipeID).
		Str("title", p.Title).
		Time("occurred_at", p.OccurredAt).
		Msg("Processed recipe event")

	return nil
}

// asynqLogger routes asynq's internal logs to zerolog.
type asynqLogger struct {
	logger zerolog.Logger
}

var _ asynq.Logger = (*asynqLogger)(nil)

func newAsynqLogger(logger *zerolog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.With().Str("component", "asynq").Logger()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
