package middleware

import (
	"net/http"
	"strings"

	"github.com/hieulm/writeuphub/backend/internal/identity"
	"github.com/labstack/echo/v4"
)

// accountIDKey is the context key the resolved actor id is stored under.
const accountIDKey = "accountID"

// RequireAuth resolves the Bearer credential through the single configured
// resolver and stores the actor id in the request context. There is no
// fallback chain: one resolver, one identity per request.
func RequireAuth(resolver identity.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			accountID, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired credential")
			}

			c.Set(accountIDKey, accountID)
			return next(c)
		}
	}
}

// ActorID returns the resolved account id for the request, or 0 when the
// request did not pass through RequireAuth.
func ActorID(c echo.Context) uint {
	if id, ok := c.Get(accountIDKey).(uint); ok {
		return id
	}
	return 0
}
