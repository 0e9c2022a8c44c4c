package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/auth"
	apperrors "taskhub/internal/errors"
)

// identityFromContext resolves the identity the authorization gate attached
// after verifying the bearer token. Only claims are carried; Name is blank.
func identityFromContext(c echo.Context) (*auth.Identity, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "Unauthorized",
			Code:  "UNAUTHENTICATED",
		})
	}
	return claims.Identity(), nil
}

// serviceError maps a domain error onto the standard HTTP error response.
func serviceError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
