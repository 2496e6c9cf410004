package middleware

import (
	"net/http"
	"strings"

	"github.com/greatbrands/ticketing/internal/auth"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth.claims"

// RequireAuth resolves the caller's identity from a bearer token and stores
// the claims on the request context. Role enforcement happens later, in the
// allocation service.
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header is missing")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token is missing")
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}

func SetClaims(c echo.Context, claims auth.Claims) {
	c.Set(claimsContextKey, claims)
}

func ClaimsFrom(c echo.Context) (auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(auth.Claims)
	return claims, ok
}
