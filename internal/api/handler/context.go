package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campneus/cofre/internal/core/domain"
)

// ctxPrincipal rebuilds the acting principal from the claims injected by the
// Auth middleware and performs a fast-fail check before any service call:
// user_id and role must both be present — their absence means the middleware
// did not run or the token predates the current claim set.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	return domain.Principal{ID: id, Email: email, Role: role}, nil
}
