package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/recipe-service/internal/middleware"
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthCheck is one dependency probe of the status endpoint.
type HealthCheck struct {
	Name string

	// Required checks turn the overall status unhealthy when they fail.
	Required bool

	Check func(ctx context.Context) error
}

// HealthHandler exposes the status endpoint used by load balancers and
// uptime monitors.
type HealthHandler struct {
	Handler
	checks  []HealthCheck
	timeout time.Duration
}

// NewHealthHandler builds the checks from the server's dependencies: the
// document store is required, Redis is optional.
func NewHealthHandler(s *server.Server) *HealthHandler {
	var checks []HealthCheck

	if s.DB != nil {
		checks = append(checks, HealthCheck{Name: "database", Required: true, Check: s.DB.Ping})
	}
	if s.Redis != nil {
		checks = append(checks, HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error {
				return s.Redis.Ping(ctx).Err()
			},
		})
	}

	return NewHealthHandlerWithChecks(s, checks...)
}

// NewHealthHandlerWithChecks builds a HealthHandler with explicit checks.
func NewHealthHandlerWithChecks(s *server.Server, checks ...HealthCheck) *HealthHandler {
	timeout := 5 * time.Second
	if s.Config != nil && s.Config.Observability != nil && s.Config.Observability.HealthChecks.Timeout > 0 {
		timeout = s.Config.Observability.HealthChecks.Timeout
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
		timeout: timeout,
	}
}

// CheckHealth reports the status of every dependency.
//
// It returns 200 when all required checks pass and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	env := ""
	if h.server.Config != nil {
		env = h.server.Config.Primary.Env
	}

	checks := make(map[string]interface{}, len(h.checks))
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": env,
		"checks":      checks,
	}

	isHealthy := true
	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.Check(ctx)
		cancel()

		responseTime := time.Since(checkStart)
		if err != nil {
			checks[check.Name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": responseTime.String(),
				"error":         err.Error(),
			}
			if check.Required {
				isHealthy = false
			}

			logger.Error().
				Err(err).
				Str("check", check.Name).
				Dur("response_time", responseTime).
				Msg("health check failed")

			h.recordEvent(map[string]interface{}{
				"check_type":       check.Name,
				"operation":        "health_check",
				"error_type":       check.Name + "_unhealthy",
				"response_time_ms": responseTime.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[check.Name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": responseTime.String(),
		}

		logger.Debug().
			Str("check", check.Name).
			Dur("response_time", responseTime).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// recordEvent sends a HealthCheckError custom event when New Relic is on.
func (h *HealthHandler) recordEvent(attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
