package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/handler"
	"taskhub/internal/metrics"
)

// Register wires routes and middleware. Protected routes sit behind the
// bearer-token gate: a missing or invalid Authorization header yields 401
// before the handler runs, and a verified token leaves its claims in the
// request context without touching the store.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = httpErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", metrics.Handler())

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require a valid bearer token)
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid or missing token",
				Code:  "UNAUTHENTICATED",
			})
		},
	}))

	secured.GET("/projects", projectHandler.List)
	secured.POST("/projects", projectHandler.Create)
	secured.PUT("/projects/:id", projectHandler.Update)
	secured.DELETE("/projects/:id", projectHandler.Delete)

	secured.GET("/tasks", taskHandler.List)
	secured.POST("/tasks", taskHandler.Create)
	secured.PATCH("/tasks/:id", taskHandler.Patch)
	secured.DELETE("/tasks/:id", taskHandler.Delete)
}

// httpErrorHandler renders every error as an {error, code} JSON body so no
// internal detail leaks to clients.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		var body apperrors.ErrorResponse
		switch m := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = m
		case string:
			body = apperrors.ErrorResponse{Error: m}
		default:
			body = apperrors.ErrorResponse{Error: http.StatusText(he.Code)}
		}
		if jsonErr := c.JSON(he.Code, body); jsonErr != nil {
			c.Logger().Error(jsonErr)
		}
		return
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	if jsonErr := c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse()); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
