package logger

import (
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLogSink adapts zerolog to the driver's options.LogSink interface so
// driver command logs end up in the application log stream.
type MongoLogSink struct {
	logger zerolog.Logger
}

var _ options.LogSink = (*MongoLogSink)(nil)

// NewMongoLogSink creates a sink tagged as the "mongo" component.
func NewMongoLogSink(logger zerolog.Logger) *MongoLogSink {
	return &MongoLogSink{
		logger: logger.With().Str("component", "mongo").Logger(),
	}
}

// Info implements options.LogSink. The driver emits level 1 for info and 2 for debug.
func (s *MongoLogSink) Info(level int, message string, keysAndValues ...interface{}) {
	event := s.logger.Debug()
	if level <= int(options.LogLevelInfo) {
		event = s.logger.Info()
	}
	addKeysAndValues(event, keysAndValues).Msg(message)
}

// Error implements options.LogSink.
func (s *MongoLogSink) Error(err error, message string, keysAndValues ...interface{}) {
	addKeysAndValues(s.logger.Error().Err(err), keysAndValues).Msg(message)
}

func addKeysAndValues(event *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	return event
}

// GetMongoLogLevel maps the zerolog level to the driver component level.
func GetMongoLogLevel(level zerolog.Level) options.LogLevel {
	if level <= zerolog.DebugLevel {
		return options.LogLevelDebug
	}
	return options.LogLevelInfo
}
