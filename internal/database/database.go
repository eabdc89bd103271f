// Package database contains the logic for establishing the connection
// to the MongoDB document store.
//
// It handles:
//   - building client options from config (URI, pool size, timeouts)
//   - wiring command monitoring (slow command log, optional New Relic via nrmongo)
//   - routing driver logs to zerolog in the local environment
//   - the unique index bootstrap (see migrator.go)
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/recipe-service/internal/config"
	loggerConfig "github.com/deppfellow/recipe-service/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the driver client and the configured database handle.
//
// The client is created once at startup and shared by every request.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database

	collection string
	log        *zerolog.Logger
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New connects to the document store with instrumentation.
//
// Behavior:
//   - apply URI, pool size and connect timeout
//   - log slow commands; chain New Relic's monitor in front when available
//   - in local env, send the driver's own command log to zerolog
//   - connect, ping, and return Database
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetConnectTimeout(time.Duration(cfg.Database.ConnectTimeout) * time.Second).
		SetServerSelectionTimeout(time.Duration(cfg.Database.ConnectTimeout) * time.Second).
		SetAppName(config.ServiceName)

	if cfg.Database.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(cfg.Database.MaxPoolSize)
	}

	var threshold time.Duration
	if cfg.Observability != nil {
		threshold = cfg.Observability.Logging.SlowQueryThreshold
	}

	// nrmongo wraps the monitor it is given, so both run.
	monitor := NewSlowCommandMonitor(*logger, threshold)
	if loggerService != nil && loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}
	clientOpts.SetMonitor(monitor)

	// Very noisy, which is why it's only in local.
	if cfg.Primary.Env == "local" {
		level := logger.GetLevel()
		clientOpts.SetLoggerOptions(options.Logger().
			SetSink(loggerConfig.NewMongoLogSink(*logger)).
			SetComponentLevel(options.LogComponentCommand, loggerConfig.GetMongoLogLevel(level)).
			SetComponentLevel(options.LogComponentConnection, options.LogLevelInfo))
	}

	client, err := mongo.Connect(context.Background(), clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	database := &Database{
		Client:     client,
		DB:         client.Database(cfg.Database.Name),
		collection: cfg.Database.Collection,
		log:        logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = database.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database.Name).
		Str("collection", cfg.Database.Collection).
		Msg("connected to the database")

	return database, nil
}

// Recipes returns the recipes collection handle.
func (db *Database) Recipes() *mongo.Collection {
	return db.DB.Collection(db.collection)
}

// Ping checks that the primary is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-use connections up to ctx.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Msg("closing database connection")
	return db.Client.Disconnect(ctx)
}

// NewSlowCommandMonitor logs commands slower than threshold as warnings and
// failed commands at debug level. A zero threshold disables the slow log.
func NewSlowCommandMonitor(logger zerolog.Logger, threshold time.Duration) *event.CommandMonitor {
	log := logger.With().Str("component", "mongo").Logger()

	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if threshold <= 0 || evt.Duration < threshold {
				return
			}
			log.Warn().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Dur("threshold", threshold).
				Msg("slow database command")
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Debug().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("database command failed")
		},
	}
}
