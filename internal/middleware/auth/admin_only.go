package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/service/token"
)

// requireCapability sends anonymous requests to the login page and answers
// authenticated ones lacking the capability with 403. The policy is
// evaluated once here, handlers never re-check group membership.
func requireCapability(ts *token.TokenService, allowed func(authz.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := authenticate(c, ts)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if !allowed(p) {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

func RequireCatalogAdmin(ts *token.TokenService, policy authz.Policy) echo.MiddlewareFunc {
	return requireCapability(ts, policy.CanManageCatalog)
}

func RequireStockAdmin(ts *token.TokenService, policy authz.Policy) echo.MiddlewareFunc {
	return requireCapability(ts, policy.CanManageStock)
}
