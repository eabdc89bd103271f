package database

import (
	"context"
	"fmt"

	"github.com/deppfellow/recipe-service/internal/config"
	"github.com/deppfellow/recipe-service/internal/model"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TitleIndexName is the name of the unique index on recipe titles.
// It appears in duplicate key errors ("index: title_1 dup key").
const TitleIndexName = "title_1"

// recipeIndexes is the persisted part of the recipe schema.
func recipeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: model.FieldTitle, Value: 1}},
			Options: options.Index().SetName(TitleIndexName).SetUnique(true),
		},
	}
}

// EnsureIndexes creates the recipe indexes if they do not exist yet.
// Creating an index that already exists with the same options is a no-op.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	names, err := coll.Indexes().CreateMany(ctx, recipeIndexes())
	if err != nil {
		return nil, fmt.Errorf("creating indexes on %s: %w", coll.Name(), err)
	}
	return names, nil
}

// EnsureIndexes bootstraps the indexes of the recipes collection.
func (db *Database) EnsureIndexes(ctx context.Context) error {
	names, err := EnsureIndexes(ctx, db.Recipes())
	if err != nil {
		return err
	}

	db.log.Info().Strs("indexes", names).Str("collection", db.collection).Msg("database indexes ensured")
	return nil
}

// Migrate connects with a short-lived client and ensures the indexes.
//
// Used by the "migrate" command so the schema can be bootstrapped before
// the service is rolled out.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		return fmt.Errorf("connecting for migration: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to disconnect migration client")
		}
	}()

	coll := client.Database(cfg.Database.Name).Collection(cfg.Database.Collection)
	names, err := EnsureIndexes(ctx, coll)
	if err != nil {
		return err
	}

	logger.Info().
		Str("database", cfg.Database.Name).
		Str("collection", cfg.Database.Collection).
		Strs("indexes", names).
		Msg("database schema up to date")
	return nil
}
