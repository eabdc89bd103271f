package router

import (
	"github.com/deppfellow/recipe-service/internal/handler"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers the endpoints that are not part of the
// recipe API: status, metrics and the API description.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPIDocument)
}
