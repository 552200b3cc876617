package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/api/middleware"
	"github.com/zetruc/pulse/internal/core/domain"
)

// principal extracts the identity injected by the Auth middleware. Its
// absence means the route was mounted without Auth, which is a 401 and not a
// panic.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bindValid binds the request body into req and runs the validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
