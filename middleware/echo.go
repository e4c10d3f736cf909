package middleware

import (
	"net/http"

	"github.com/MrEthical07/mediaguard"
	"github.com/labstack/echo/v4"
)

// EchoIdentityKey is the echo.Context key holding the validated identity.
const EchoIdentityKey = "mediaguard.identity"

// EchoRequireRole is [RequireRole] for echo routers. Failures are returned
// as *echo.HTTPError so the router's error handler renders them.
func EchoRequireRole(engine *mediaguard.Engine, role mediaguard.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if engine == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			ctx := mediaguard.WithClientIP(c.Request().Context(), c.RealIP())
			id, err := engine.ValidateAccess(ctx, token, role)
			if err != nil {
				status := statusFor(err)
				return echo.NewHTTPError(status, http.StatusText(status))
			}

			c.Set(EchoIdentityKey, id)
			return next(c)
		}
	}
}

// EchoIdentity returns the identity stored by [EchoRequireRole].
func EchoIdentity(c echo.Context) (mediaguard.Identity, bool) {
	id, ok := c.Get(EchoIdentityKey).(mediaguard.Identity)
	return id, ok
}
