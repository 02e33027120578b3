package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/service/token"
)

// RequireLogin rejects unauthenticated requests and stores the principal in
// the context for the handler.
func RequireLogin(ts *token.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := authenticate(c, ts)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}
