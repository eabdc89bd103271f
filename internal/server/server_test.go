package server

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/recipe-service/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_WithoutHTTPServer(t *testing.T) {
	logger := zerolog.Nop()
	s := &Server{Config: &config.Config{}, Logger: &logger}

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestSetupHTTPServer(t *testing.T) {
	s := &Server{Config: &config.Config{Server: config.ServerConfig{
		Port:         "5000",
		ReadTimeout:  30,
		WriteTimeout: 15,
		IdleTimeout:  60,
	}}}

	s.SetupHTTPServer(nil)

	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":5000", s.httpServer.Addr)
	assert.Equal(t, "30s", s.httpServer.ReadTimeout.String())
	assert.Equal(t, "15s", s.httpServer.WriteTimeout.String())
	assert.Equal(t, "1m0s", s.httpServer.IdleTimeout.String())
}

func TestShutdown_ClosesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	s := &Server{Config: &config.Config{}, Redis: client}
	require.NoError(t, s.Shutdown(context.Background()))

	assert.ErrorIs(t, client.Ping(context.Background()).Err(), redis.ErrClosed)
}

func TestShutdown_NothingStarted(t *testing.T) {
	s := &Server{Config: &config.Config{}}
	assert.NoError(t, s.Shutdown(context.Background()))
}
