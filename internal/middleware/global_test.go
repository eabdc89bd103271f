package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/recipe-service/internal/config"
	"github.com/deppfellow/recipe-service/internal/dberr"
	"github.com/deppfellow/recipe-service/internal/errs"
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
		},
		Logger: &logger,
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "http error",
			err:    errs.NewBadRequestError("Validation error", []errs.FieldError{{Field: "servings", Error: "too small"}}),
			status: http.StatusBadRequest,
			body:   `{"message":"Validation error","errors":["too small"]}`,
		},
		{
			name:   "unknown route",
			err:    echo.ErrNotFound,
			status: http.StatusNotFound,
			body:   `{"message":"Route not found"}`,
		},
		{
			name:   "method not allowed",
			err:    echo.ErrMethodNotAllowed,
			status: http.StatusNotFound,
			body:   `{"message":"Route not found"}`,
		},
		{
			name:   "store error",
			err:    dberr.NewNotFoundError("recipes", "abc"),
			status: http.StatusNotFound,
			body:   `{"message":"Recipe not found"}`,
		},
		{
			name: "store duplicate key",
			err: dberr.Convert(mongo.CommandError{
				Code:    11000,
				Message: `E11000 duplicate key error collection: recipes.recipes index: title_1 dup key: { title: "Soup" }`,
			}, "recipes"),
			status: http.StatusBadRequest,
			body:   `{"message":"A recipe with this title already exists."}`,
		},
		{
			name:   "store malformed id",
			err:    dberr.NewMalformedIDError("recipes", "abc"),
			status: http.StatusBadRequest,
			body:   `{"message":"Invalid recipe ID format."}`,
		},
		{
			name:   "store validation",
			err:    dberr.NewValidationError("recipes", []errs.FieldError{{Field: "title", Error: "Recipe title is required"}}),
			status: http.StatusBadRequest,
			body:   `{"message":"Validation error","errors":["Recipe title is required"]}`,
		},
		{
			name:   "echo client error",
			err:    echo.NewHTTPError(http.StatusRequestEntityTooLarge, "body too large"),
			status: http.StatusRequestEntityTooLarge,
			body:   `{"message":"body too large"}`,
		},
		{
			name:   "anything else",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   `{"message":"Something broke!","error":"boom"}`,
		},
	}

	global := NewGlobalMiddlewares(testServer())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestGlobalErrorHandler_Committed(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewGlobalMiddlewares(testServer()).GlobalErrorHandler(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestRecover(t *testing.T) {
	global := NewGlobalMiddlewares(testServer())

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.Use(global.Recover())
	e.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Something broke!", body["message"])
	assert.Contains(t, body["error"], "kaboom")
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "from-upstream")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "from-upstream", seen)
	assert.Equal(t, "from-upstream", rec.Header().Get(RequestIDHeader))
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	logger := GetLogger(c)
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestRateLimit_Disabled(t *testing.T) {
	limit := NewRateLimitMiddleware(testServer())

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(testServer()).GlobalErrorHandler
	e.Use(limit.Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}
