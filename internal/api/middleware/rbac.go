package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// RequireRole hides a route from sessions without one of the given roles. It is
// presentation gating only; the remote service re-checks every request.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap, _ := c.Get(SessionContextKey).(ports.SessionSnapshot)
			if !snap.IsAuthenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not signed in"})
			}
			if _, ok := allowed[snap.Role()]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
