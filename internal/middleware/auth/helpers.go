package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/onlineshop/tvshop/internal/authz"
	"github.com/onlineshop/tvshop/internal/service/token"
)

const principalKey = "principal"

var errUnauthenticated = errors.New("unauthenticated")

// Principal returns the requester resolved by the auth middleware.
func Principal(c echo.Context) (authz.Principal, bool) {
	p, ok := c.Get(principalKey).(authz.Principal)
	return p, ok
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// authenticate resolves the principal from the access cookie, rotating the
// pair from the refresh cookie when the access token has expired.
func authenticate(c echo.Context, ts *token.TokenService) (authz.Principal, error) {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		p, err := ts.ParseAccess(cookie.Value)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return authz.Principal{}, errUnauthenticated
		}
	}

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil || refreshCookie.Value == "" {
		return authz.Principal{}, errUnauthenticated
	}

	newAccess, newRefresh, p, err := ts.Rotate(refreshCookie.Value)
	if err != nil {
		return authz.Principal{}, errUnauthenticated
	}

	c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(token.RefreshTTL)))
	return p, nil
}
