// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/recipe-service/internal/handler"
	"github.com/deppfellow/recipe-service/internal/middleware"
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance serving the whole API.
//
// Middleware order matters: the request id and New Relic transaction must
// exist before the request logger is built, and the logger must exist
// before anything logs.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Pre(middlewares.Global.RemoveTrailingSlash())

	router.Use(
		middlewares.Global.Recover(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middleware.Metrics(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerRecipeRoutes(api, h)

	// Unmatched paths go through the error handler so they get the JSON
	// "Route not found" body.
	router.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound)
	})

	return router
}
